package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"pdfcheck/internal/api"
	"pdfcheck/internal/cache"
	"pdfcheck/internal/check"
	"pdfcheck/internal/config"
	"pdfcheck/internal/events"
	"pdfcheck/internal/extract"
	"pdfcheck/internal/llm"
	"pdfcheck/internal/logging"
	"pdfcheck/internal/store"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "pdfcheck",
		Short: "Check PDF documents against natural-language rules via an LLM",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := config.Load(); err != nil {
				logging.Infof("no .env loaded: %v", err)
			}
			logging.InitFromEnv()
		},
	}
	root.AddCommand(serveCmd(), checkCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, closeFn, err := buildDeps()
			if err != nil {
				return err
			}
			defer closeFn()

			r := api.NewRouter(deps)
			addr := ":" + config.Port()
			logging.Infof("listening on %s", addr)
			return r.Run(addr)
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.pdf> <rule> [rule...]",
		Short: "Check one PDF against rules and print the JSON results",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newLLMClient()
			if err != nil {
				return err
			}
			checker := check.NewChecker(client, nil)
			extractor := newExtractor()

			ctx := context.Background()
			text, err := extractor.Extract(ctx, args[0])
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}
			if extract.IsBlank(text) {
				return fmt.Errorf("no text could be extracted from %s", args[0])
			}

			results := checker.Run(ctx, text, args[1:])
			out, err := json.MarshalIndent(check.Response{Results: results}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newExtractor() extract.Extractor {
	if bin := config.PdftotextBin(); bin != "" {
		return extract.NewCommandExtractor(bin)
	}
	return extract.NewPDFExtractor()
}

func newLLMClient() (llm.Client, error) {
	return llm.New(llm.Config{
		Provider:      config.Provider(),
		Model:         config.Model(),
		GeminiAPIKey:  config.GeminiAPIKey(),
		OpenAIAPIKey:  config.OpenAIAPIKey(),
		OpenAIBaseURL: config.OpenAIBaseURL(),
	})
}

func buildDeps() (api.Deps, func(), error) {
	client, err := newLLMClient()
	if err != nil {
		return api.Deps{}, nil, err
	}

	var closers []func()
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	var resultCache cache.ResultCache
	if addr := config.RedisAddr(); addr != "" {
		rc, err := cache.NewRedisResultCache(addr, os.Getenv("REDIS_PASSWORD"), 0, 0)
		if err != nil {
			closeAll()
			return api.Deps{}, nil, err
		}
		resultCache = rc
		closers = append(closers, func() { rc.Close() })
		logging.Infof("result cache enabled at %s", addr)
	}

	deps := api.Deps{
		Extractor:  newExtractor(),
		Runner:     check.NewChecker(client, resultCache),
		UploadsDir: config.UploadsDir(),
		MaxRules:   config.MaxRules(),
	}

	if path := config.DBPath(); path != "" {
		s, err := store.Open(path)
		if err != nil {
			closeAll()
			return api.Deps{}, nil, err
		}
		deps.Store = s
		closers = append(closers, func() { s.Close() })
		logging.Infof("check history at %s", path)
	}

	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		pub := events.New(brokers, config.KafkaTopic())
		deps.Events = pub
		closers = append(closers, func() { pub.Close() })
		logging.Infof("check events publishing to %s", config.KafkaTopic())
	}

	return deps, closeAll, nil
}
