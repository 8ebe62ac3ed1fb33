package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corel/pkg/conventional"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [message...]",
		Short: "Print the bump severity of commit messages",
		Long:  "Classifies each argument as a commit message. Without arguments, every line of stdin is classified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			messages := args
			if len(messages) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := strings.TrimSpace(scanner.Text()); line != "" {
						messages = append(messages, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			for _, msg := range messages {
				sev, rule := conventional.Explain(msg)
				fmt.Fprintf(out, "%-5s\t%-15s\t%s\n", sev, rule, firstLine(msg))
			}
			return nil
		},
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
