package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// promptYesNo writes question to out and reads one line from in. Anything
// other than y or yes, including a read error, is a no.
func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (y/N): ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// nonInteractive reports whether prompts should be skipped.
func nonInteractive() bool {
	return os.Getenv("CI") != ""
}
