package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take the neuroleader type test",
	Long: `Take the neuroleader type test.

Opens the interactive questionnaire. With --plain the statements are read
line by line from stdin instead, which works in any terminal or pipe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if plain, _ := cmd.Flags().GetBool("plain"); !plain {
			return runApp(cmd, true)
		}
		return withEnv(runPlainTest)(cmd, args)
	},
}

func init() {
	takeCmd.Flags().Bool("plain", false, "Line-based questionnaire on stdin/stdout")
}

func runPlainTest(cmd *cobra.Command, args []string, env *appEnv) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	attempt, err := env.svc.NewAttempt()
	if err != nil {
		return err
	}
	total := len(attempt.Questions)

	fmt.Fprintln(out, "Test neuroleaderski")
	fmt.Fprintln(out, "Oceń każde stwierdzenie od 1 (zdecydowanie nie) do 5 (zdecydowanie tak).")
	fmt.Fprintf(out, "Pusta linia pomija pytanie. Wymagane jest %.0f%% odpowiedzi.\n\n", assessment.CompletionThreshold)

	pending := attempt.Questions
	for {
		var skipped []assessment.Question
		for _, q := range pending {
			i := indexOf(attempt.Questions, q.ID)
			fmt.Fprintf(out, "── Pytanie %d/%d ──\n%s\n", i+1, total, q.Text)
			value, ok, closed := readLikert(scanner, out)
			if closed {
				fmt.Fprintln(out, "\n(koniec wejścia)")
				return apperr.Validation("input_closed", "Test przerwany przed zakończeniem.")
			}
			if !ok {
				skipped = append(skipped, q)
				fmt.Fprintln(out, "(pominięto)")
				fmt.Fprintln(out)
				continue
			}
			if err := attempt.Answer(q.ID, value); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}

		outcome, err := env.svc.SubmitTest(cmd.Context(), env.cfg.UserID, attempt)
		if err == nil {
			printOutcome(out, env, outcome.Result.Dominant, outcome.Result.Scores)
			for _, a := range outcome.NewAchievements {
				fmt.Fprintf(out, "%s Nowe osiągnięcie: %s\n", a.Icon, a.Name)
			}
			return nil
		}
		if !apperr.IsKind(err, apperr.KindValidation) {
			return err
		}
		// Rejected: go through what was skipped.
		fmt.Fprintln(out, apperr.UserMessage(err))
		fmt.Fprintln(out)
		pending = skipped
	}
}

// readLikert reads one answer. ok is false for a skip; closed reports EOF.
func readLikert(scanner *bufio.Scanner, out io.Writer) (value int, ok, closed bool) {
	for {
		fmt.Fprint(out, "Odpowiedź [1-5]: ")
		if !scanner.Scan() {
			return 0, false, true
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			return 0, false, false
		}
		v, err := strconv.Atoi(text)
		if err == nil && v >= assessment.MinValue && v <= assessment.MaxValue {
			return v, true, false
		}
		fmt.Fprintln(out, "Podaj liczbę od 1 do 5.")
	}
}

func indexOf(qs []assessment.Question, id string) int {
	for i, q := range qs {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func printOutcome(out io.Writer, env *appEnv, dominant assessment.Category, scores map[assessment.Category]int) {
	fmt.Fprintln(out, "── Wynik ──")
	card, err := env.svc.Type(dominant)
	if err != nil {
		env.log.Warn("type card unavailable", "type", string(dominant), "error", err)
		fmt.Fprintf(out, "Twój typ: %s\n", dominant.DisplayName())
	} else {
		fmt.Fprintf(out, "Twój typ: %s %s\n%s\n", card.Icon, card.Name, card.ShortDescription)
	}
	fmt.Fprintln(out)
	for _, c := range assessment.AllCategories() {
		fmt.Fprintf(out, "  %-16s %3d\n", c.DisplayName(), scores[c])
	}
	fmt.Fprintln(out)
}
