// Command emovox synthesizes emotional speech: neural TTS backends plus a
// DSP post-processing chain, driven from a console, a form UI, or one-shot
// CLI calls.
package main

import (
	"os"

	"github.com/emovox/emovox/cmd/emovox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
