package settings

import (
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
)

const (
	AppName = "mrcool"

	DefaultAPIURL          = "https://ai-bot-xp22.onrender.com/chat"
	DefaultMaxPromptLength = 1000
	DefaultAddr            = ":8080"
)

var DefaultSuggestedPrompts = []string{
	"Explain recursion like I'm five.",
	"Give me three ideas for a weekend project.",
	"What's a good way to learn a new programming language?",
	"Summarize the plot of Hamlet in two sentences.",
}

// Settings is the resolved application configuration.
type Settings struct {
	APIURL           string
	NoticeDuration   time.Duration
	MaxPromptLength  int
	AssistantName    string
	SuggestedPrompts []string
	UserAgent        string
	Addr             string
}

// document is the config file layout. Durations are written as strings
// ("5s") so the output of WriteYAML can be read back as a config file.
type document struct {
	APIURL           string   `yaml:"api-url"`
	NoticeDuration   string   `yaml:"notice-duration"`
	MaxPromptLength  int      `yaml:"max-prompt-length"`
	AssistantName    string   `yaml:"assistant-name"`
	SuggestedPrompts []string `yaml:"suggested-prompts"`
	UserAgent        string   `yaml:"user-agent,omitempty"`
	Addr             string   `yaml:"addr"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api-url", DefaultAPIURL)
	v.SetDefault("notice-duration", notice.DefaultDuration)
	v.SetDefault("max-prompt-length", DefaultMaxPromptLength)
	v.SetDefault("assistant-name", render.DefaultAssistantName)
	v.SetDefault("suggested-prompts", DefaultSuggestedPrompts)
	v.SetDefault("user-agent", AppName)
	v.SetDefault("addr", DefaultAddr)
}

// AddFlags registers the mrcool flags shared by every command. They must be
// added before the root command is handed to clay.InitViper, which binds the
// root's persistent flags into viper.
func AddFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String("api-url", DefaultAPIURL, "Assistant endpoint URL")
	fs.Duration("notice-duration", notice.DefaultDuration, "How long notices stay visible (0 keeps them)")
}

// Load resolves and validates settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIURL:           strings.TrimSpace(v.GetString("api-url")),
		NoticeDuration:   v.GetDuration("notice-duration"),
		MaxPromptLength:  v.GetInt("max-prompt-length"),
		AssistantName:    strings.TrimSpace(v.GetString("assistant-name")),
		SuggestedPrompts: cleanPrompts(v.GetStringSlice("suggested-prompts")),
		UserAgent:        strings.TrimSpace(v.GetString("user-agent")),
		Addr:             strings.TrimSpace(v.GetString("addr")),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil {
		return errors.Wrapf(err, "api-url %q", s.APIURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("api-url %q must be an absolute http(s) URL", s.APIURL)
	}
	if s.NoticeDuration < 0 {
		return errors.Errorf("notice-duration must not be negative, got %s", s.NoticeDuration)
	}
	if s.MaxPromptLength <= 0 {
		return errors.Errorf("max-prompt-length must be positive, got %d", s.MaxPromptLength)
	}
	if s.AssistantName == "" {
		return errors.New("assistant-name must not be empty")
	}
	return nil
}

// WriteYAML writes s in config file form.
func (s Settings) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(document{
		APIURL:           s.APIURL,
		NoticeDuration:   s.NoticeDuration.String(),
		MaxPromptLength:  s.MaxPromptLength,
		AssistantName:    s.AssistantName,
		SuggestedPrompts: s.SuggestedPrompts,
		UserAgent:        s.UserAgent,
		Addr:             s.Addr,
	})
	if err != nil {
		return errors.Wrap(err, "encode settings")
	}
	return errors.Wrap(enc.Close(), "encode settings")
}

func cleanPrompts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
