package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BerylCAtieno/ai-stack-agent/internal/client"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/BerylCAtieno/ai-stack-agent/internal/presentation"
	"github.com/BerylCAtieno/ai-stack-agent/internal/questionnaire"
	"github.com/spf13/cobra"
)

// spinningSubmitter shows a spinner while the stack is being generated.
type spinningSubmitter struct {
	api *client.Client
}

func (s spinningSubmitter) GenerateStack(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error) {
	sp := newSpinner("Gerando sua stack de IA...")
	sp.Start()
	defer sp.Stop()
	return s.api.GenerateStack(ctx, req)
}

func newQuestionnaireCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "questionnaire",
		Aliases: []string{"start"},
		Short:   "Answer the questionnaire and generate your AI stack",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api := newAPIClient()
			printHeader("🤖 Descubra sua Stack de IA")
			fmt.Println("Responda com o número da opção. Diga \"anterior\" para voltar.")

			prompter := questionnaire.NewPrompter(os.Stdin, os.Stdout)
			profileID, err := prompter.Run(ctx, questionnaire.New(), spinningSubmitter{api: api})
			if err != nil {
				return err
			}
			printSuccess("Stack gerada! Perfil " + profileID)

			if err := showStack(ctx, api, profileID); err != nil {
				return err
			}

			fmt.Println()
			if ok, _ := prompter.Confirm("Quer agendar uma sessão estratégica?"); ok {
				return startCheckout(ctx, api, nil)
			}
			return nil
		},
	}
}

func newStackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stack PROFILE_ID",
		Short: "Show a generated stack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var profileID string
			if len(args) == 1 {
				profileID = args[0]
			}
			return showStack(cmd.Context(), newAPIClient(), profileID)
		},
	}
}

func showStack(ctx context.Context, api *client.Client, profileID string) error {
	view := presentation.Load(ctx, api, profileID, newSpinner("Carregando sua stack..."))
	if err := presentation.Render(os.Stdout, view, outputFormat); err != nil {
		return err
	}
	if !speak || view.State != presentation.StateSuccess {
		return nil
	}

	speaker := presentation.NewSpeaker(newLogger())
	if !speaker.Available() {
		printError("Leitura em voz alta indisponível (instale espeak-ng ou say)")
		return nil
	}
	if err := speaker.Speak(ctx, presentation.Narration(view.Result)); err != nil {
		return err
	}
	fmt.Println("🔊 Lendo resultados... (Ctrl+C para parar)")
	speaker.Wait()
	return nil
}

func newCheckoutCmd() *cobra.Command {
	var amount int64
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Create a payment intent for the strategy session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var amt *int64
			if cmd.Flags().Changed("amount") {
				amt = &amount
			}
			return startCheckout(cmd.Context(), newAPIClient(), amt)
		},
	}
	cmd.Flags().Int64Var(&amount, "amount", 19700, "Amount in centavos")
	return cmd
}

func startCheckout(ctx context.Context, api *client.Client, amount *int64) error {
	sp := newSpinner("Preparando pagamento...")
	sp.Start()
	secret, err := api.CreatePaymentIntent(ctx, amount)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}
	printSuccess("Pagamento criado")
	fmt.Printf("Client secret: %s\n", secret)
	return nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API and agent card are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			api := newAPIClient()
			printHeader("🩺 Health Check")

			failed := 0
			if err := api.Health(ctx); err != nil {
				printError("Health check failed: " + err.Error())
				failed++
			} else {
				printSuccess("Health check passed")
			}

			card, err := api.AgentCard(ctx)
			if err != nil {
				printError("Agent card failed: " + err.Error())
				failed++
			} else {
				printSuccess(fmt.Sprintf("Agent card: %s (%d skills) at %s", card.Name, len(card.Skills), card.URL))
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
