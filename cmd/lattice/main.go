// Package main provides the Lattice ML Framework CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/lattice-ml/lattice/graph"
	"github.com/lattice-ml/lattice/netdef"
	"github.com/lattice-ml/lattice/weights"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("Lattice ML Framework %s\n", version)
	case "inspect":
		err = inspect(os.Args[2:])
	case "convert":
		err = convert(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		klog.Exitf("lattice: %v", err)
	}
}

func usage() {
	fmt.Println("Lattice ML Framework - declarative computation graphs for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                      Show version")
	fmt.Println("  inspect <net.hcl>            Build a network description and print its structure")
	fmt.Println("  convert <in.ltw> <out.ltw>   Rewrite a weight snapshot (e.g. to half precision)")
}

// inspect builds the described network under a state given by flags and
// prints the resolved structure.
func inspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	phaseName := fs.String("phase", "test", "network phase: train or test")
	level := fs.Int("level", 0, "state level for include/exclude rules")
	stages := fs.String("stages", "", "comma-separated active stages")
	klog.InitFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: expected exactly one description file")
	}

	def, err := netdef.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	phase, ok := netdef.ParsePhase(*phaseName)
	if !ok {
		return fmt.Errorf("inspect: unknown phase %q", *phaseName)
	}
	def.State = netdef.State{Phase: phase, Level: *level}
	if *stages != "" {
		def.State.Stages = strings.Split(*stages, ",")
	}

	n, err := graph.NewNet(def)
	if err != nil {
		return err
	}

	fmt.Printf("network %s (%s phase): %d units, %d buffers\n",
		n.Name(), phase, n.NumUnits(), len(n.BufferNames()))
	for i, name := range n.UnitNames() {
		u := n.UnitByName(name)
		fmt.Printf("  %2d  %-24s %s\n", i, name, u.Type())
		for _, b := range n.BottomBuffersOf(i) {
			fmt.Printf("        <- %s\n", b.Shape())
		}
		for _, top := range n.TopBuffersOf(i) {
			fmt.Printf("        -> %s\n", top.Shape())
		}
	}
	var paramBytes int64
	for _, p := range n.LearnableParams() {
		paramBytes += int64(p.ByteSize())
	}
	fmt.Printf("parameters: %d learnable tensors, %s\n",
		len(n.LearnableParams()), humanize.Bytes(uint64(paramBytes)))
	fmt.Printf("activations: %s\n", humanize.Bytes(uint64(n.MemoryUsed())))
	return nil
}

// convert rewrites a snapshot file, optionally to half precision.
func convert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	half := fs.Bool("half", false, "store float32 tensors as float16")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("convert: expected input and output snapshot paths")
	}

	snap, err := weights.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := weights.Save(fs.Arg(1), snap, weights.SaveOptions{HalfPrecision: *half}); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d units, half=%v)\n", fs.Arg(1), len(snap.Units), *half)
	return nil
}
