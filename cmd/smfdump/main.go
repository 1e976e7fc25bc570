// smfdump prints the contents of a Standard MIDI File, one event per
// line with absolute tick positions. Useful for eyeballing renderer
// output without loading it into a DAW.
package main

import (
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: smfdump FILE.mid")
		os.Exit(2)
	}

	s, err := smf.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "smfdump: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("format %d, %d tracks, %s\n", s.Format(), s.NumTracks(), s.TimeFormat)

	for i, track := range s.Tracks {
		fmt.Printf("\ntrack %d (%d events)\n", i, len(track))
		tick := uint64(0)
		for _, ev := range track {
			tick += uint64(ev.Delta)
			fmt.Printf("  %8d  +%-6d %s\n", tick, ev.Delta, ev.Message.String())
		}
	}
}
