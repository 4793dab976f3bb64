package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"go-chi-keypad/internal/engine"
	"go-chi-keypad/internal/keyboard"
	"go-chi-keypad/internal/keypad"

	"github.com/spf13/cobra"
)

type replayStep struct {
	Key     string `json:"key"`
	Handled bool   `json:"handled"`
	Display string `json:"display"`
}

func newReplayCommand() *cobra.Command {
	var (
		source     string
		trace      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "replay KEY...",
		Short: "Feed keys through a fresh calculator and print the display",
		Example: `  # 5 × 3 =
  keypad replay 5 '*' 3 Enter

  # Same input as keypad buttons, printing every step
  keypad replay --source keypad --trace 5 × 3 =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var translate func(string) (engine.Action, bool)
			switch source {
			case "keyboard":
				translate = keyboard.Translate
			case "keypad":
				translate = keypad.Press
			default:
				return fmt.Errorf("unknown source %q (want keyboard or keypad)", source)
			}

			steps, final := replay(engine.NewEngine(), args, translate)
			return printReplay(cmd.OutOrStdout(), steps, final, trace, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&source, "source", "keyboard", "interpret arguments as keyboard keys or keypad button labels")
	cmd.Flags().BoolVar(&trace, "trace", false, "print the display after every key")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func replay(e *engine.Engine, keys []string, translate func(string) (engine.Action, bool)) ([]replayStep, engine.State) {
	steps := make([]replayStep, 0, len(keys))
	for _, key := range keys {
		a, ok := translate(key)
		if ok {
			e.Dispatch(a)
		}
		steps = append(steps, replayStep{Key: key, Handled: ok, Display: e.State().Display})
	}
	return steps, e.State()
}

func printReplay(w io.Writer, steps []replayStep, final engine.State, trace, jsonOutput bool) error {
	if jsonOutput {
		out := struct {
			Display string       `json:"display"`
			Phase   string       `json:"phase"`
			Steps   []replayStep `json:"steps,omitempty"`
		}{Display: final.Display, Phase: final.Phase().String()}
		if trace {
			out.Steps = steps
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if trace {
		for _, s := range steps {
			mark := ""
			if !s.Handled {
				mark = " (ignored)"
			}
			if _, err := fmt.Fprintf(w, "%-8s %s%s\n", s.Key, s.Display, mark); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, final.Display)
	return err
}
