// tlpcalibrate measures the stretch profiles on this machine and suggests a
// time-lock puzzle iteration count for a target unlock time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/stretch"
)

func main() {
	fs := flag.NewFlagSet("tlpcalibrate", flag.ExitOnError)
	target := fs.Duration("target", time.Minute, "desired bootstrap time")
	samples := fs.Int("samples", 3, "long-hash samples to average")
	_ = fs.Parse(os.Args[1:])
	if *samples < 1 || *target <= 0 {
		fmt.Fprintln(os.Stderr, "usage: tlpcalibrate [-target 1m] [-samples 3]")
		os.Exit(2)
	}

	s := stretch.Protocol()
	in := make([]byte, stretch.OutputLen)

	start := time.Now()
	if _, err := s.Quick(in); err != nil {
		fmt.Fprintf(os.Stderr, "quick: %v\n", err)
		os.Exit(1)
	}
	quick := time.Since(start)

	start = time.Now()
	if _, err := s.Long(context.Background(), in, *samples, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rlong hash %d/%d", done, total)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "\nlong: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr)
	long := time.Since(start) / time.Duration(*samples)

	n := int((*target - 2*quick) / long)
	if n < greatwall.MinTLP {
		n = greatwall.MinTLP
	}
	if n > greatwall.MaxTLP {
		n = greatwall.MaxTLP
	}
	fmt.Printf("quick hash:     %v\n", quick.Round(time.Millisecond))
	fmt.Printf("long hash:      %v\n", long.Round(time.Millisecond))
	fmt.Printf("tlp_iterations: %d (about %v)\n", n, (time.Duration(n)*long + 2*quick).Round(time.Second))
}
