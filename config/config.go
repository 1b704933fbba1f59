package config

import (
	"fmt"
	"os"
	"strconv"

	"dianti/logger"
	"dianti/protocol"

	"github.com/joho/godotenv"
)

// compiled-in defaults; every one can be overridden from .env or the environment.
const (
	DefaultEvent        = "secondspace2025"
	DefaultBuildingName = "tiny_random"
	DefaultBotName      = "go-bot"
	DefaultEmail        = "bob@mail.com"
	DefaultSandbox      = true
	DefaultSimAddr      = ":8090"
)

// environment variable names.
const (
	EnvAPIURL       = "DIANTI_API_URL"
	EnvEvent        = "DIANTI_EVENT"
	EnvBuildingName = "DIANTI_BUILDING"
	EnvBotName      = "DIANTI_BOT"
	EnvEmail        = "DIANTI_EMAIL"
	EnvSandbox      = "DIANTI_SANDBOX"
	EnvWatchAddr    = "WATCH_ADDR"
	EnvSimAddr      = "SIM_ADDR"
	EnvSimBuildings = "SIM_BUILDINGS"
	EnvLogLevel     = "LOG_LEVEL"
)

type Config struct {
	APIURL       string
	Event        string
	BuildingName string
	BotName      string
	Email        string
	Sandbox      bool
	WatchAddr    string // empty disables the spectator feed
	SimAddr      string
	SimBuildings string // optional YAML preset file for the local simulator
	LogLevel     string
}

// InitConfig loads a .env file from the working directory if there is one.
func InitConfig(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.GetLogger().Debug().Err(err).Msg("no .env loaded, using environment and defaults")
		return
	}

	logger.GetLogger().Debug().Msg("Successfully loaded environment variables")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func Default() Config {
	return Config{
		APIURL:       protocol.DefaultAPIURL,
		Event:        DefaultEvent,
		BuildingName: DefaultBuildingName,
		BotName:      DefaultBotName,
		Email:        DefaultEmail,
		Sandbox:      DefaultSandbox,
		SimAddr:      DefaultSimAddr,
	}
}

// Load returns the defaults overlaid with whatever the environment sets.
func Load() (Config, error) {
	c := Default()
	override(&c.APIURL, EnvAPIURL)
	override(&c.Event, EnvEvent)
	override(&c.BuildingName, EnvBuildingName)
	override(&c.BotName, EnvBotName)
	override(&c.Email, EnvEmail)
	override(&c.WatchAddr, EnvWatchAddr)
	override(&c.SimAddr, EnvSimAddr)
	override(&c.SimBuildings, EnvSimBuildings)
	override(&c.LogLevel, EnvLogLevel)

	if s, err := GetEnvVariable(EnvSandbox); err == nil {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s=%q: %w", EnvSandbox, s, err)
		}
		c.Sandbox = b
	}
	return c, nil
}

func override(dst *string, name string) {
	if v, err := GetEnvVariable(name); err == nil {
		*dst = v
	}
}

// BotFor names the bot after the policy unless a name was configured.
func (c Config) BotFor(policyName string) string {
	if c.BotName == "" || c.BotName == DefaultBotName {
		return policyName + "-" + DefaultBotName
	}
	return c.BotName
}

// Registration builds the handshake body for the given bot name.
func (c Config) Registration(bot string) protocol.Registration {
	if bot == "" {
		bot = c.BotName
	}
	return protocol.Registration{
		Bot:          bot,
		BuildingName: c.BuildingName,
		Email:        c.Email,
		Event:        c.Event,
		Sandbox:      c.Sandbox,
	}
}
