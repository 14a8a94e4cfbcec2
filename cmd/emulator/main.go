// Command emulator runs a guest ROM image against the ARM710-style core.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/arm710emu/config"
	"github.com/lookbusy1344/arm710emu/core"
	"github.com/lookbusy1344/arm710emu/coproc"
	"github.com/lookbusy1344/arm710emu/ioext"
	"github.com/lookbusy1344/arm710emu/membus"
	"github.com/lookbusy1344/arm710emu/mmu"
)

// version is the emulator's release string, set for the version command.
const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "arm710emu",
		Short: "ARM710-style instruction-accurate emulator",
	}

	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")

	runCmd := newRunCmd(&configPath)
	rootCmd.AddCommand(runCmd, newInspectROMCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the emulator version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}
}

func newInspectROMCmd() *cobra.Command {
	var bankSize uint32
	cmd := &cobra.Command{
		Use:   "inspect-rom [path]",
		Short: "Print bank size and exception-vector words of a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := membus.LoadROMFile(args[0], bankSize)
			if err != nil {
				return err
			}
			fmt.Printf("ROM: %s (bank size %d bytes)\n", args[0], bankSize)
			for v := core.VectorReset; v <= core.VectorReset+7*4; v += 4 {
				fmt.Printf("  vector %02X: %08X\n", v, bank.ReadWord(uint32(v)))
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&bankSize, "bank-size", 256<<20, "ROM bank capacity in bytes")
	return cmd
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		romPath      string
		maxCycles    uint64
		arch         string
		bigEndian    bool
		mmuEnabled   bool
		lcdLimit     uint32
		enableTrace  bool
		traceOutput  string
		traceInsns   bool
		traceRegs    bool
		traceFlags   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a ROM image and execute it until the instruction retirement limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg, romPath, maxCycles, arch, bigEndian, mmuEnabled, lcdLimit, enableTrace, traceOutput)

			m, bus, err := buildMachine(cfg)
			if err != nil {
				return err
			}

			if cfg.Execution.EnableTrace {
				f, err := os.Create(cfg.Trace.OutputFile) // #nosec G304 -- user-specified trace output path
				if err != nil {
					return fmt.Errorf("failed to create trace file: %w", err)
				}
				defer f.Close()

				tr := core.NewTracer(f)
				tr.Instructions = traceInsns
				tr.Registers = traceRegs || cfg.Trace.IncludeRegs
				tr.Flags = traceFlags || cfg.Trace.IncludeFlags
				tr.Exceptions = true
				tr.MaxEntries = cfg.Trace.MaxEntries
				m.Trace = tr
			}

			if cfg.Execution.EnableStats {
				m.Stats = core.NewPerformanceStatistics()
				m.Stats.Enabled = true
				m.Coverage = core.NewCodeCoverage()
				m.Coverage.Enabled = true
			}

			run(m, cfg.Execution.MaxCycles)

			if cfg.Execution.EnableStats {
				printStats(bus)
				if err := writeStats(cfg, m); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&romPath, "rom", "", "ROM image path (overrides config)")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "Instruction retirement limit, 0 = use config")
	cmd.Flags().StringVar(&arch, "arch", "", "MMU architecture variant: v3 or v4 (overrides config)")
	cmd.Flags().BoolVar(&bigEndian, "big-endian", false, "Run in big-endian mode")
	cmd.Flags().BoolVar(&mmuEnabled, "mmu-enabled", false, "Enable the MMU at reset")
	cmd.Flags().Uint32Var(&lcdLimit, "lcd-limit", 0, "Framebuffer address limit (overrides config), 0 = use config")
	cmd.Flags().BoolVar(&enableTrace, "trace", false, "Enable execution tracing (overrides config)")
	cmd.Flags().StringVar(&traceOutput, "trace-output", "", "Trace output file (overrides config)")
	cmd.Flags().BoolVar(&traceInsns, "trace-instructions", true, "Trace retired instructions")
	cmd.Flags().BoolVar(&traceRegs, "trace-registers", false, "Trace register writes")
	cmd.Flags().BoolVar(&traceFlags, "trace-flags", false, "Trace CPSR flag changes")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config, romPath string, maxCycles uint64, arch string, bigEndian, mmuEnabled bool, lcdLimit uint32, enableTrace bool, traceOutput string) {
	if romPath != "" {
		cfg.Execution.ROMPath = romPath
	}
	if maxCycles != 0 {
		cfg.Execution.MaxCycles = maxCycles
	}
	if arch != "" {
		cfg.MMU.Architecture = arch
	}
	if cmd.Flags().Changed("big-endian") {
		cfg.Bus.BigEndian = bigEndian
	}
	if cmd.Flags().Changed("mmu-enabled") {
		cfg.MMU.Enabled = mmuEnabled
	}
	if lcdLimit != 0 {
		cfg.Bus.LCDLimit = lcdLimit
	}
	if cmd.Flags().Changed("trace") {
		cfg.Execution.EnableTrace = enableTrace
	}
	if traceOutput != "" {
		cfg.Trace.OutputFile = traceOutput
	}
}

// buildMachine wires ROM, DRAM, device and MMU banks into a bus façade and
// a freshly reset core.Machine, per §4/§6.
func buildMachine(cfg *config.Config) (*core.Machine, *membus.Bus, error) {
	rom, err := membus.LoadROMFile(cfg.Execution.ROMPath, cfg.Execution.ROMBankSize)
	if err != nil {
		return nil, nil, err
	}

	banks := membus.NewBanks()
	banks.Mount(0x0, rom)

	dramC, dramD := membus.NewDRAM()
	banks.Mount(0xC, dramC)
	banks.Mount(0xD, dramD)
	banks.Mount(0x8, membus.NewDeviceBank(ioext.NullIO{}))

	arch := mmu.ArchV4
	if cfg.MMU.Architecture == "v3" {
		arch = mmu.ArchV3
	}
	m := mmu.New(arch)
	if cfg.MMU.Enabled {
		m.MCR(mmu.CR1Control, 0, mmu.CtrlMMUEnable)
	}
	if cfg.Bus.BigEndian {
		m.MCR(mmu.CR1Control, 0, m.Control()|mmu.CtrlBigEndian)
	}

	cp := coproc.NewBus()
	cp.Attach(15, m.Slot15())

	bus := membus.NewBus(banks, m, ioext.NullFramebuffer{}, cfg.Bus.LCDLimit)

	machine := core.NewMachine(bus, cp)
	return machine, bus, nil
}

func run(m *core.Machine, maxCycles uint64) {
	for m.Retired < maxCycles {
		m.Step()
	}
}

func printStats(bus *membus.Bus) {
	seq, nonSeq, internal, coprocCycles := bus.Cycles()
	fmt.Printf("cycles: sequential=%d non-sequential=%d internal=%d coprocessor=%d\n", seq, nonSeq, internal, coprocCycles)
}

// statsReport is the on-disk shape of the statistics file written when
// execution.enable_stats is set, in json or text
// format (cfg.Statistics.Format), adapted from the teacher's
// PerformanceStatistics/CodeCoverage JSON export.
type statsReport struct {
	TotalInstructions uint64            `json:"total_instructions"`
	ExceptionCounts   map[string]uint64 `json:"exception_counts"`
	CoveredAddresses  int               `json:"covered_addresses"`
}

func writeStats(cfg *config.Config, m *core.Machine) error {
	report := statsReport{
		TotalInstructions: m.Stats.TotalInstructions,
		ExceptionCounts:   make(map[string]uint64),
		CoveredAddresses:  len(m.Coverage.Report()),
	}
	for kind, count := range m.Stats.ExceptionCounts {
		report.ExceptionCounts[kind.String()] = count
	}

	f, err := os.Create(cfg.Statistics.OutputFile) // #nosec G304 -- user-specified stats output path
	if err != nil {
		return fmt.Errorf("failed to create statistics file: %w", err)
	}
	defer f.Close()

	if cfg.Statistics.Format == "text" {
		fmt.Fprintf(f, "total_instructions: %d\n", report.TotalInstructions)
		for kind, count := range report.ExceptionCounts {
			fmt.Fprintf(f, "exceptions[%s]: %d\n", kind, count)
		}
		fmt.Fprintf(f, "covered_addresses: %d\n", report.CoveredAddresses)
		return nil
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	return nil
}
