package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"disclosure-engine-be/internal/bootstrap"
	"disclosure-engine-be/internal/config"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/memory"
	"disclosure-engine-be/pkg/disclosure/eligibility"
	"disclosure-engine-be/pkg/disclosure/flow"
	"disclosure-engine-be/pkg/disclosure/report"
	"disclosure-engine-be/pkg/disclosure/state"
	"disclosure-engine-be/pkg/llm"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	productName  string
	description  string
	category     string
	companyName  string
	location     string
	providerName string
	interactive  bool
	deferEvery   int
	maxSteps     int
	logPath      string
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a disclosure questionnaire end to end in-process",
	Long: `Screens a product, walks the questionnaire to completion and prints the
synthesized reports. The offline provider needs no model backend; use
--provider=config to talk to the backend configured in the environment.`,
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&productName, "name", "Organic Lip Balm", "product name")
	f.StringVar(&description, "description", "Beeswax and shea butter lip balm with no synthetic fragrance", "product description")
	f.StringVar(&category, "category", "cosmetics", "product category")
	f.StringVar(&companyName, "company", "Hive Co", "company name")
	f.StringVar(&location, "location", "Coorg, India", "manufacturing location")
	f.StringVar(&providerName, "provider", "offline", "offline or config")
	f.BoolVarP(&interactive, "interactive", "i", false, "read answers from stdin")
	f.IntVar(&deferEvery, "defer-every", 4, "scripted mode: defer every Nth question (0 disables)")
	f.IntVar(&maxSteps, "max-steps", 300, "abort after this many steps")
	f.StringVar(&logPath, "log-file", "logs/simulate.log", "engine log file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Load()
	log := logger.NewIsolatedLogger(logPath)
	defer log.Sync()

	provider, err := selectProvider(ctx, cfg)
	if err != nil {
		return err
	}

	completed := make(chan flow.Completion, 1)
	hook := flow.HookFunc(func(_ context.Context, c flow.Completion) { completed <- c })
	engine := bootstrap.NewEngine(cfg, provider, memory.NewSessionRepository(0), hook, log)

	verdict, err := engine.Assessor.Assess(ctx, eligibility.Request{
		Category:    category,
		ProductName: productName,
		CompanyName: companyName,
		Location:    location,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("eligibility: %w", err)
	}
	color.Cyan("Eligibility: %s (%s)", verdict.Decision, verdict.Reason)
	if verdict.Decision != eligibility.DecisionAccepted {
		color.Yellow("Product was not accepted, questionnaire skipped")
		return nil
	}

	product := state.Product{
		ID:          uuid.NewString(),
		Name:        productName,
		Description: description,
		Category:    category,
		Location:    location,
		CompanyName: companyName,
	}
	requester := uuid.NewString()

	res, err := engine.Controller.Start(ctx, product, requester)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	color.Cyan("Session %s", res.SessionID)

	stdin := bufio.NewScanner(cmd.InOrStdin())
	for step := 1; !res.IsComplete; step++ {
		if step > maxSteps {
			return fmt.Errorf("gave up after %d steps", maxSteps)
		}
		printQuestion(step, res)

		answer, err := nextAnswer(stdin, step, res)
		if err != nil {
			return err
		}
		color.White("  > %s", answer)

		res, err = engine.Controller.Step(ctx, flow.StepRequest{
			SessionID:   res.SessionID,
			RequesterID: requester,
			Section:     res.Section,
			DataPoint:   res.DataPoint,
			Answer:      answer,
		})
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if res.Outcome != "" && res.Outcome != state.OutcomeCovered {
			color.Yellow("  (%s)", res.Outcome)
		}
	}
	color.Green("Questionnaire complete")

	var done flow.Completion
	select {
	case done = <-completed:
	case <-time.After(time.Minute):
		return errors.New("completion hook did not fire")
	case <-ctx.Done():
		return ctx.Err()
	}

	pair, err := engine.Pipeline.Synthesize(ctx, report.Input{
		SessionID:  done.SessionID,
		Product:    done.Product,
		Sector:     done.Sector,
		Transcript: done.Transcript,
	})
	if err != nil {
		color.Red("Report synthesis failed: %v", err)
		return err
	}

	printDocument(pair.Summary)
	printDocument(pair.Findings)
	return nil
}

func selectProvider(ctx context.Context, cfg *config.Config) (llm.LLMProvider, error) {
	switch providerName {
	case "offline":
		return offlineProvider(), nil
	case "config":
		return bootstrap.NewLLMProvider(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown provider %q", providerName)
}

// questionHeader renders the step line; OverallProgress is already a percentage.
func questionHeader(step int, res *flow.StepResult) string {
	header := fmt.Sprintf("[%d] %s / %s  (%.0f%% overall)", step, res.Section, res.DataPoint, res.OverallProgress)
	if res.IsRevisit {
		header += " revisit"
	}
	return header
}

func printQuestion(step int, res *flow.StepResult) {
	color.Yellow("\n%s", questionHeader(step, res))
	fmt.Println("  " + res.Question)
	if res.HelperText != "" {
		color.HiBlack("  %s", res.HelperText)
	}
}

func nextAnswer(stdin *bufio.Scanner, step int, res *flow.StepResult) (string, error) {
	if interactive {
		fmt.Print("  your answer: ")
		if !stdin.Scan() {
			if err := stdin.Err(); err != nil {
				return "", err
			}
			return "", errors.New("stdin closed before the questionnaire finished")
		}
		return strings.TrimSpace(stdin.Text()), nil
	}
	if deferEvery > 0 && step%deferEvery == 0 && !res.IsRevisit {
		return "skip for now", nil
	}
	return fmt.Sprintf("Our %s is documented and available on request.", strings.ToLower(res.DataPoint)), nil
}

func printDocument(doc report.Document) {
	color.Green("\n== %s ==", doc.Title)
	fmt.Println(doc.Content)
}
