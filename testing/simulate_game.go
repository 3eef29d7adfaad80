package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/game"
	"github.com/tatianab/text-rpg/internal/llm"
	"github.com/tatianab/text-rpg/internal/logger"
	"github.com/tatianab/text-rpg/internal/models"
)

const maxTurns = 10

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.Setup("-", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	gen, err := llm.New(llm.Options{
		Provider:        cfg.Provider,
		APIKeyEnv:       cfg.APIKeyEnv,
		BaseURL:         cfg.BaseURL,
		ReasoningEffort: cfg.ReasoningEffort,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create model backend")
	}

	// The game master and the player share one backend.
	gm := engine.NewEngine(gen, engine.Options{Model: cfg.Model, ThinkingBudget: cfg.ThinkingBudget}, log)
	store := game.NewStore(gm, log)
	player := &player{gen: gen, model: cfg.Model, logger: log}

	// 1. Get a premise from the player model
	fmt.Println("--- Step 1: Requesting a premise from the Player LLM ---")
	premise, err := player.ask(ctx, "You are a player about to start a text-based RPG. Provide a short, creative premise for your character (e.g., 'I am a retired pirate running a bakery', 'I am a ghost haunting a library'). Return ONLY the premise.")
	if err != nil {
		log.Fatal().Err(err).Msg("get premise")
	}
	fmt.Printf("Player chose premise: %s\n\n", premise)

	// 2. Initialize the world
	fmt.Println("--- Step 2: Initializing World ---")
	if err := store.Start(ctx, premise); err != nil {
		log.Fatal().Err(err).Msg("initialize game")
	}
	state := store.State()
	fmt.Printf("Class: %s\n", state.Character.ClassTitle)
	fmt.Printf("Quest: %s\n", state.Character.ActiveQuest)
	fmt.Printf("Scene: %s\n\n", state.History[0].Content)

	// 3. Play the game
	for turn := 1; turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d ---\n", state.TurnCount)

		action := player.nextAction(ctx, state)
		fmt.Printf("Player Action: %s\n", action)

		if err := store.Act(ctx, action); err != nil {
			fmt.Printf("Error processing turn: %v\n", err)
			state = store.State()
			continue
		}
		state = store.State()

		c := state.Character
		fmt.Printf("GM: %s\n", state.History[len(state.History)-1].Content)
		fmt.Printf("HP=%d/%d SP=%d/%d Inventory=%v\n", c.HP.Current, c.HP.Max, c.SP.Current, c.SP.Max, c.Inventory)
		fmt.Printf("Quest: %s\n", c.ActiveQuest)
		for _, rel := range models.SortByRecency(c.Relationships) {
			fmt.Printf("  %s (%s): %d, %s\n", rel.FullName, rel.Role, rel.RelationshipScore, rel.Attitude)
		}
		fmt.Println()

		if state.Status == models.StatusGameOver {
			fmt.Println("Game Ended.")
			break
		}
	}

	// 4. Dump the session
	fmt.Println("--- Transcript ---")
	data, err := store.Transcript().Marshal()
	if err != nil {
		log.Fatal().Err(err).Msg("marshal transcript")
	}
	fmt.Println(string(data))
}

type player struct {
	gen    llm.Generator
	model  string
	logger zerolog.Logger
}

func (p *player) ask(ctx context.Context, prompt string) (string, error) {
	text, err := p.gen.Generate(ctx, llm.Request{
		Label:    "player",
		Model:    p.model,
		Contents: prompt,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *player) nextAction(ctx context.Context, state models.GameState) string {
	c := state.Character
	prompt := fmt.Sprintf(`You are playing a text-based RPG as a %s.
HP: %d/%d, SP: %d/%d
Inventory: %v
Active Quest: %s

Recent events:
%s

Suggested choices: %s

What is your next action? Pick a suggested choice or invent your own. Return ONLY the action string, no extra commentary.`,
		c.ClassTitle,
		c.HP.Current, c.HP.Max, c.SP.Current, c.SP.Max,
		c.Inventory,
		c.ActiveQuest,
		game.RecentHistory(state.History, game.ContextWindow),
		strings.Join(state.CurrentChoices, " | "),
	)

	action, err := p.ask(ctx, prompt)
	if err != nil {
		p.logger.Warn().Err(err).Msg("player model failed, falling back")
		if len(state.CurrentChoices) > 0 {
			return state.CurrentChoices[0]
		}
		return "look around"
	}
	if action == "" {
		return "look around"
	}
	return action
}
