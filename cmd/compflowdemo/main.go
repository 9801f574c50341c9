// Command compflowdemo is a small CLI around the compflow runtime: it
// registers a handful of demo components, runs them in a group, and
// shows the run's progress live in a terminal UI driven by a broker
// observer.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
