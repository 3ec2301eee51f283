package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"

	"github.com/spf13/viper"

	"fx_terminal/internal/modules/config"
)

const (
	configDir         = "configs"
	baseConfigName    = ".values.base"
	defaultConfigFile = "values_local.yaml"
)

// seedDefaults заполняет engine стартовыми значениями терминала.
func seedDefaults(engine *viper.Viper) {
	engine.SetDefault("mode", "paper")
	engine.SetDefault("notify", "stdout")

	engine.SetDefault("account.currency", "USD")
	engine.SetDefault("account.starting_cash", 1_000_000)

	engine.SetDefault("feed.mode", "sim")
	engine.SetDefault("feed.url", "")

	engine.SetDefault("history_limit", 1000)

	engine.SetDefault("health.health_addr", ":8080")

	engine.SetDefault("jaeger.host", "")
	engine.SetDefault("jaeger.port", 6831)

	instruments := make([]interface{}, 0)
	watch := make([]int, 0)
	for _, inst := range config.DefaultInstruments() {
		instruments = append(instruments, map[string]interface{}{
			"uic":    inst.UIC,
			"symbol": inst.Symbol,
		})
		watch = append(watch, inst.UIC)
	}
	engine.SetDefault("instruments", instruments)
	engine.SetDefault("watch", watch)
	engine.SetDefault("default_prices", config.DefaultPrices())
}

func generateConfig(engine *viper.Viper, file string) (string, error) {
	allSettings := engine.AllSettings()

	bs, err := yaml.Marshal(allSettings)
	if err != nil {
		return "", errors.Wrap(err, "marshal config to yaml")
	}
	if err = os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", errors.Wrap(err, "create configs dir")
	}
	_ = os.Remove(file)
	temp, err := os.Create(file)
	if err != nil {
		return "", errors.Wrap(err, "create values file")
	}
	if _, err = temp.WriteString(string(bs)); err != nil {
		_ = os.Remove(temp.Name())
		return "", errors.Wrap(err, "write content")
	}
	return temp.Name(), temp.Close()
}

func main() {
	engine := viper.New()
	engine.SetConfigName(baseConfigName)
	engine.SetConfigType("yaml")
	engine.AddConfigPath(configDir)
	engine.AddConfigPath(".")

	seedDefaults(engine)

	// базовый файл опционален: без него пишем чистые дефолты
	if err := engine.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	out := filepath.Join(configDir, defaultConfigFile)
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	name, err := generateConfig(engine, out)
	if err != nil {
		panic(fmt.Errorf("can't generate result config: %w", err))
	}
	fmt.Printf("%s file complete\n", name)
}
