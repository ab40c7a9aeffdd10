// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ezrec/ucboot/boot"
	"github.com/ezrec/ucboot/device"
	"github.com/ezrec/ucboot/image"
	"github.com/ezrec/ucboot/vector"
)

func payload(name string) (data []byte) {
	if len(name) == 0 {
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		log.Fatalf("%v: %v", name, err)
	}

	return
}

func main() {
	var dev string
	var text string
	var rodata string
	var data string
	var bss uint
	var startup string
	var binOut string
	var hexOut string
	var run bool
	var symbols bool
	var defines bool
	var verbose bool

	flag.StringVar(&dev, "d", "", ".star device description")
	flag.StringVar(&text, "t", "", "code payload file")
	flag.StringVar(&rodata, "r", "", "read-only data payload file")
	flag.StringVar(&data, "i", "", "initialized-data payload file")
	flag.UintVar(&bss, "b", 0, "uninitialized-data size in bytes")
	flag.StringVar(&startup, "e", "", "startup handler address (default: start of code)")
	flag.StringVar(&binOut, "o", "", "flat binary output file")
	flag.StringVar(&hexOut, "x", "", "Intel HEX output file")
	flag.BoolVar(&run, "run", false, "Simulate the reset sequence")
	flag.BoolVar(&symbols, "sym", false, "Print layout symbols")
	flag.BoolVar(&defines, "defs", false, "Print device defines")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(dev) == 0 {
		log.Fatalf("%v: no device description (-d)", os.Args[0])
	}

	target, err := device.Load(dev)
	if err != nil {
		log.Fatalf("%v: %v", dev, err)
	}

	if defines {
		for key, value := range target.Defines() {
			fmt.Printf("%v = %v\n", key, value)
		}
	}

	builder := &image.Builder{
		Verbose: verbose,
		Device:  target,
		Table:   vector.New(target.Interrupts),
		Text:    payload(text),
		Rodata:  payload(rodata),
		Data:    payload(data),
		BSS:     uint32(bss),
	}

	lay, err := builder.Layout()
	if err != nil {
		log.Fatalf("%v: %v", dev, err)
	}

	entry, err := lay.Section(image.SectionText)
	if err != nil {
		log.Fatalf("%v: %v", dev, err)
	}
	addr := entry.Start
	if len(startup) != 0 {
		a64, err := strconv.ParseUint(startup, 0, 32)
		if err != nil {
			log.Fatalf("%v: %v", startup, err)
		}
		addr = uint32(a64)
	}
	builder.Table.SetStartup(addr)

	if symbols {
		for key, value := range lay.Symbols() {
			fmt.Printf("%v = 0x%08x\n", key, value)
		}
	}

	img, err := builder.Build()
	if err != nil {
		log.Fatalf("%v: %v", dev, err)
	}

	if len(binOut) != 0 {
		ouf, err := os.Create(binOut)
		if err != nil {
			log.Fatalf("%v: %v", binOut, err)
		}
		defer ouf.Close()
		if err = img.WriteBin(ouf); err != nil {
			log.Fatalf("%v: %v", binOut, err)
		}
	}

	if len(hexOut) != 0 {
		ouf, err := os.Create(hexOut)
		if err != nil {
			log.Fatalf("%v: %v", hexOut, err)
		}
		defer ouf.Close()
		if err = img.WriteHex(ouf); err != nil {
			log.Fatalf("%v: %v", hexOut, err)
		}
	}

	if run {
		bus, err := img.Map()
		if err != nil {
			log.Fatalf("%v: %v", dev, err)
		}
		bus.Verbose = verbose

		handler := &boot.Handler{
			Verbose: verbose,
			Bus:     bus,
			Layout:  img.Layout,
		}
		if err = handler.Reset(); err != nil {
			log.Fatalf("%v: %v", dev, err)
		}

		log.Printf("%v: %v sp=%08x reads=%v writes=%v",
			target.Name, handler.State(), handler.StackPointer(),
			bus.Reads, bus.Writes)
	}
}
