// Command inspector is a read-only tview state viewer for the ARM710-style
// core: registers, CPSR, TLB and cache occupancy, and the last vectored
// exception. Unlike the teacher's interactive debugger, it never mutates
// emulator state beyond single-stepping.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/lookbusy1344/arm710emu/config"
	"github.com/lookbusy1344/arm710emu/core"
	"github.com/lookbusy1344/arm710emu/coproc"
	"github.com/lookbusy1344/arm710emu/ioext"
	"github.com/lookbusy1344/arm710emu/membus"
	"github.com/lookbusy1344/arm710emu/mmu"
)

func main() {
	var romPath string
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "arm710inspect",
		Short: "Read-only state inspector for the ARM710-style core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if romPath != "" {
				cfg.Execution.ROMPath = romPath
			}

			m, bus, mm, err := buildMachine(cfg)
			if err != nil {
				return err
			}

			insp := newInspector(m, bus, mm)
			return insp.Run()
		},
	}
	rootCmd.Flags().StringVar(&romPath, "rom", "", "ROM image path (overrides config)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: platform config dir)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func buildMachine(cfg *config.Config) (*core.Machine, *membus.Bus, *mmu.MMU, error) {
	rom, err := membus.LoadROMFile(cfg.Execution.ROMPath, cfg.Execution.ROMBankSize)
	if err != nil {
		return nil, nil, nil, err
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

	cp := coproc.NewBus()
	cp.Attach(15, m.Slot15())

	bus := membus.NewBus(banks, m, ioext.NullFramebuffer{}, cfg.Bus.LCDLimit)
	machine := core.NewMachine(bus, cp)
	return machine, bus, m, nil
}

// inspector owns the tview application and the views it repaints from
// machine state; it never constructs its own panes beyond what the
// teacher's debugger TUI shows for registers/memory, narrowed to a
// read-only subset (no source view, no breakpoints).
type inspector struct {
	machine *core.Machine
	bus     *membus.Bus
	mmu     *mmu.MMU

	app          *tview.Application
	registerView *tview.TextView
	cpsrView     *tview.TextView
	tlbView      *tview.TextView
	cacheView    *tview.TextView
	exceptionView *tview.TextView
	commandInput *tview.InputField
}

func newInspector(m *core.Machine, bus *membus.Bus, mm *mmu.MMU) *inspector {
	insp := &inspector{
		machine: m,
		bus:     bus,
		mmu:     mm,
		app:     tview.NewApplication(),
	}
	insp.build()
	return insp
}

func (insp *inspector) build() {
	insp.registerView = tview.NewTextView().SetDynamicColors(true)
	insp.registerView.SetBorder(true).SetTitle(" Registers ")

	insp.cpsrView = tview.NewTextView().SetDynamicColors(true)
	insp.cpsrView.SetBorder(true).SetTitle(" CPSR ")

	insp.tlbView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	insp.tlbView.SetBorder(true).SetTitle(" TLB ")

	insp.cacheView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	insp.cacheView.SetBorder(true).SetTitle(" Cache ")

	insp.exceptionView = tview.NewTextView().SetDynamicColors(true)
	insp.exceptionView.SetBorder(true).SetTitle(" Last Exception ")

	insp.commandInput = tview.NewInputField().SetLabel("step count (Enter) > ")
	insp.commandInput.SetBorder(true).SetTitle(" Command ")
	insp.commandInput.SetDoneFunc(insp.handleCommand)

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(insp.registerView, 8, 0, false).
		AddItem(insp.cpsrView, 4, 0, false).
		AddItem(insp.exceptionView, 4, 0, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(insp.tlbView, 0, 1, false).
		AddItem(insp.cacheView, 0, 1, false)

	content := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, false).
		AddItem(insp.commandInput, 3, 0, true)

	insp.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			insp.app.Stop()
			return nil
		}
		return event
	})

	insp.app.SetRoot(layout, true).SetFocus(insp.commandInput)
}

func (insp *inspector) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	text := strings.TrimSpace(insp.commandInput.GetText())
	insp.commandInput.SetText("")

	count := 1
	if text != "" {
		if _, err := fmt.Sscanf(text, "%d", &count); err != nil {
			count = 1
		}
	}
	for i := 0; i < count; i++ {
		insp.machine.Step()
	}
	insp.refresh()
}

func (insp *inspector) refresh() {
	insp.updateRegisters()
	insp.updateCPSR()
	insp.updateTLB()
	insp.updateCache()
	insp.updateException()
	insp.app.Draw()
}

func (insp *inspector) updateRegisters() {
	var b strings.Builder
	r := insp.machine.Regs
	for i := 0; i < 16; i += 4 {
		fmt.Fprintf(&b, "R%-2d: %08X  R%-2d: %08X  R%-2d: %08X  R%-2d: %08X\n",
			i, r.Get(i), i+1, r.Get(i+1), i+2, r.Get(i+2), i+3, r.Get(i+3))
	}
	insp.registerView.SetText(b.String())
}

func (insp *inspector) updateCPSR() {
	p := insp.machine.CPSR
	flag := func(name string, set bool) string {
		if set {
			return "[green]" + name + "[white]"
		}
		return strings.ToLower(name)
	}
	text := fmt.Sprintf("%s %s %s %s  I=%v F=%v T=%v  mode=%02X\nretired: %d",
		flag("N", p.N), flag("Z", p.Z), flag("C", p.C), flag("V", p.V),
		p.I, p.F, p.T, uint32(p.Mode), insp.machine.Retired)
	insp.cpsrView.SetText(text)
}

func (insp *inspector) updateTLB() {
	var b strings.Builder
	for _, e := range insp.mmu.TLBEntries() {
		fmt.Fprintf(&b, "virt=%08X phys=%08X domain=%d mapping=%d\n", e.Virt, e.Phys, e.Domain, e.Mapping)
	}
	if b.Len() == 0 {
		b.WriteString("[yellow]empty[white]")
	}
	insp.tlbView.SetText(b.String())
}

func (insp *inspector) updateCache() {
	var b strings.Builder
	lines := insp.mmu.CacheLines()
	occupied := 0
	for set := range lines {
		for way := range lines[set] {
			if lines[set][way].Valid {
				occupied++
				fmt.Fprintf(&b, "set=%03d way=%d tag=%08X\n", set, way, lines[set][way].Tag)
			}
		}
	}
	fmt.Fprintf(&b, "\noccupied: %d/%d\n", occupied, mmu.CacheLines*mmu.CacheWays)
	insp.cacheView.SetText(b.String())
}

func (insp *inspector) updateException() {
	if !insp.machine.LastExceptionSet {
		insp.exceptionView.SetText("[yellow]none[white]")
		return
	}
	insp.exceptionView.SetText(insp.machine.LastException.String())
}

// Run starts the inspector's event loop.
func (insp *inspector) Run() error {
	insp.refresh()
	return insp.app.Run()
}
