// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package loopsim_test

import (
	"fmt"

	"github.com/joeycumines/go-loopsim"
)

func ExampleScheduler_Step() {
	sim, err := loopsim.New(loopsim.DemoOptions()...)
	if err != nil {
		panic(err)
	}

	step := func() {
		t := sim.Next()
		sim.Step()
		fmt.Printf("%-18s pc=%d output=%v\n", t, sim.ProgramCounter(), sim.Output())
	}

	for range 8 {
		step()
	}

	// the timer callback has 2000ms remaining
	step()
	for range 4 {
		sim.Tick()
	}
	step()
	step()

	//output:
	//advance-program    pc=1 output=[]
	//drain-stack        pc=1 output=[A]
	//advance-program    pc=2 output=[A]
	//advance-program    pc=3 output=[A]
	//advance-program    pc=4 output=[A]
	//drain-stack        pc=4 output=[A D]
	//drain-microtask    pc=4 output=[A D]
	//drain-stack        pc=4 output=[A D C]
	//idle               pc=4 output=[A D C]
	//dispatch-macrotask pc=4 output=[A D C]
	//drain-stack        pc=4 output=[A D C B]
}
