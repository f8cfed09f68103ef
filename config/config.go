package config

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	// DefaultLoginURL is the Salesforce OAuth token endpoint base.
	DefaultLoginURL = "https://login.salesforce.com"
	// DefaultAPIVersion is the REST API version queries are sent to.
	DefaultAPIVersion = "51.0"
	// DefaultCallbackPort is the local port the OAuth callback server
	// binds during the browser authorization flow.
	DefaultCallbackPort = 8000
)

// Config holds the tool configuration. The cmd package populates it from
// flags, environment variables and an optional config file through viper.
type Config struct {
	ClientID       string `mapstructure:"client-id" validate:"required"`
	ClientSecret   string `mapstructure:"client-secret" validate:"required"`
	LoginURL       string `mapstructure:"login-url" validate:"required,url"`
	APIVersion     string `mapstructure:"api-version" validate:"required"`
	CallbackPort   int    `mapstructure:"callback-port" validate:"gte=1,lte=65535"`
	TokenFile      string `mapstructure:"token-file" validate:"required"`
	CacheFile      string `mapstructure:"cache-file" validate:"required"`
	HistoryFile    string `mapstructure:"history-file"`
	Output         string `mapstructure:"output" validate:"oneof=table json"`
	RequestLogging bool   `mapstructure:"request-logging"`
}

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required (set it with a flag, config file or SFDC_* environment variable)", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		translated, _ := ut.T("required", fe.Field())
		return translated
	})
}

// Validate checks the assembled configuration and returns a single
// human-readable error listing everything that is missing or malformed.
func (c *Config) Validate() error {
	return translateValidatorError(inputValidator.Struct(c))
}

// translateValidatorError flattens go-playground validator errors into
// one readable message; the raw errors expose struct internals that mean
// nothing to a CLI user.
func translateValidatorError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
