package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"kiln/ast"
	"kiln/config"
	"kiln/lower"
)

const historyFile = ".kiln_history"

// runRepl reads one JSON program per line and compiles each in a fresh
// session. Sessions are single-use, so bindings do not carry across lines.
func runRepl(opts config.Options) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	log.Printf("Interactive session; one JSON program per line, .quit to exit")

	for {
		input, err := line.Prompt("kiln> ")
		if err != nil {
			// Ctrl-C or EOF ends the session
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ".quit" || input == ".exit" {
			return
		}
		line.AppendHistory(input)

		out, err := compileLine(input, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Print(out)
	}
}

func compileLine(input string, opts config.Options) (string, error) {
	root, err := ast.DecodeProgram([]byte(input))
	if err != nil {
		return "", err
	}
	sess, err := lower.NewSession(opts)
	if err != nil {
		return "", err
	}
	return sess.Run(root)
}
