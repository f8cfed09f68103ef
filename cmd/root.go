package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	log2 "log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/soqlgen/soqlgen/config"
	"github.com/soqlgen/soqlgen/engine"
	"github.com/soqlgen/soqlgen/format"
	"github.com/soqlgen/soqlgen/hint"
	"github.com/soqlgen/soqlgen/log"
	"github.com/soqlgen/soqlgen/schema"
	"github.com/soqlgen/soqlgen/sfdc"
	"github.com/soqlgen/soqlgen/types"
)

// Environment variables prefixed with "SFDC_" can override settings,
// e.g. "SFDC_CLIENT_ID".
const envVarPrefix = "sfdc"

var cfgFile string
var logger log.Logger

var rootCmd = &cobra.Command{
	Use:   os.Args[0] + " [--query EXPRESSION] [OPTIONS]",
	Short: "Translate object-method query expressions to SOQL and run them against Salesforce",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		ctx := context.Background()
		conn, err := sfdc.NewConnection(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("unable to connect to Salesforce",
				"error", err)
		}

		if query := viper.GetString("query"); query != "" {
			if err := runQuery(ctx, conn, cfg, nil, query); err != nil {
				os.Exit(1)
			}
			return
		}

		runInteractive(ctx, conn, cfg)
	},
}

// Execute runs the CLI.
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.StringP("query", "q", "", "translate and execute a single expression, then exit")
	flags.String("client-id", "", "connected app consumer key")
	flags.String("client-secret", "", "connected app consumer secret")
	flags.String("login-url", config.DefaultLoginURL, "OAuth login endpoint")
	flags.String("api-version", config.DefaultAPIVersion, "Salesforce REST API version")
	flags.Int("callback-port", config.DefaultCallbackPort, "local port for the OAuth callback server")
	flags.String("token-file", "refresh_token.txt", "file holding the saved refresh token")
	flags.String("cache-file", "cache_data.json", "file holding the schema cache")
	flags.String("history-file", "history.txt", "file holding the prompt history")
	flags.StringP("output", "o", "json", "result rendering: table or json")
	flags.Bool("request-logging", false, "log requests handled by the OAuth callback server")
	flags.Bool("no-cache", false, "disable the schema cache and completion")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			_ = viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		}
	}
}

func loadConfig() *config.Config {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logger.Fatal("unable to decode configuration",
			"error", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			"error", err)
	}
	return cfg
}

// runQuery translates one expression and executes it. Engine errors are
// printed with a caret under the offending character and the expression
// is never sent to the service.
func runQuery(ctx context.Context, conn *sfdc.Connection, cfg *config.Config, hinter *hint.Hinter, input string) error {
	translation, err := engine.Translate(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, engine.FormatError(input, err))
		return err
	}

	result, err := conn.Query(ctx, translation.SOQL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var apiErr types.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode == "INVALID_TYPE" {
			maybeSuggest(hinter, input)
		}
		return err
	}

	if err := render(cfg, result, translation.Fields); err != nil {
		return err
	}

	if translation.OpenBrowser {
		if err := conn.OpenRecord(result); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return nil
}

// maybeSuggest prints a "did you mean" hint when the expression names
// something close to a known object.
func maybeSuggest(hinter *hint.Hinter, input string) {
	if hinter == nil {
		return
	}
	object := input
	if dot := strings.Index(input, "."); dot >= 0 {
		object = input[:dot]
	}
	if suggestion, ok := hinter.Suggest(strings.TrimSpace(object)); ok {
		fmt.Fprintf(os.Stderr, "did you mean %q?\n", suggestion)
	}
}

func render(cfg *config.Config, result *types.QueryResponse, fields []string) error {
	if cfg.Output == "table" {
		return format.Table(os.Stdout, result, fields)
	}
	return format.JSON(os.Stdout, result)
}

func runInteractive(ctx context.Context, conn *sfdc.Connection, cfg *config.Config) {
	store := loadSchema(ctx, conn, cfg)
	hinter := hint.NewHinter(store)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "SOQL> ",
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    hinter,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Fatal("unable to start prompt",
			"error", err)
	}
	defer rl.Close()

	fmt.Println("Welcome to SOQL Generator")
	fmt.Println("Type 'exit' to quit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}

		// fetch the object's fields for completion while the user works
		if object, ok := hinter.Object(line); ok {
			go store.PrefetchFields(ctx, conn, object, logger)
		}

		_ = runQuery(ctx, conn, cfg, hinter, line)
	}

	saveSchema(store, cfg)
}

// loadSchema brings up the completion schema: the cache file when fresh,
// otherwise one describeGlobal round trip.
func loadSchema(ctx context.Context, conn *sfdc.Connection, cfg *config.Config) *schema.Store {
	if viper.GetBool("no-cache") {
		return schema.NewStore(nil)
	}

	cache, err := schema.Load(cfg.CacheFile)
	if err != nil {
		logger.Warn("unable to load schema cache",
			"file", cfg.CacheFile,
			"error", err)
	}
	if cache == nil {
		cache, err = schema.Fetch(ctx, conn)
		if err != nil {
			logger.Warn("unable to fetch org schema, completion disabled",
				"error", err)
			return schema.NewStore(nil)
		}
		if err := cache.Save(cfg.CacheFile); err != nil {
			logger.Warn("unable to save schema cache",
				"file", cfg.CacheFile,
				"error", err)
		}
	}
	return schema.NewStore(cache)
}

func saveSchema(store *schema.Store, cfg *config.Config) {
	if viper.GetBool("no-cache") {
		return
	}
	if cache := store.Get(); cache != nil {
		if err := cache.Save(cfg.CacheFile); err != nil {
			logger.Warn("unable to save schema cache",
				"file", cfg.CacheFile,
				"error", err)
		}
	}
}
