// Package cmd provides the command-line interface for the greeting.
package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/decker502/valentine/pkg/app"
	"github.com/decker502/valentine/pkg/config"
	"github.com/decker502/valentine/pkg/embedded"
)

// defaultConfigPath 嵌入的默认配置
const defaultConfigPath = "data/greeting.yaml"

var (
	configPath string
	verbose    bool
	seed       int64
	fullscreen bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "valentine",
	Short: "An interactive Valentine's greeting: gift box, typed letter and a final animated page.",
	Long: `An interactive Valentine's greeting. Click the gift box to open it, ` +
		`wait for the letter to finish typing, then click the letter to reveal ` +
		`the final page with a heart ring and an image carousel.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"path to a greeting YAML file (default: the embedded "+defaultConfigPath+")")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	flags.Int64Var(&seed, "seed", 0, "particle random seed (0 = time based)")
	flags.BoolVar(&fullscreen, "fullscreen", false, "start in fullscreen mode (F11 toggles)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Registered exit handlers run on every exit path.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func run(cmd *cobra.Command, args []string) error {
	greeting, err := prepare()
	if err != nil {
		return err
	}

	a, err := app.NewApp(app.Config{
		Verbose:  verbose,
		Greeting: greeting,
		Seed:     seed,
	})
	if err != nil {
		return err
	}
	atexit.Register(a.Close)

	ebiten.SetWindowSize(greeting.Window.Width, greeting.Window.Height)
	ebiten.SetWindowTitle(greeting.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(greeting.Window.Fullscreen)
	// 关闭窗口时由 App.Update 结束会话
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}

// prepare 先按 --verbose 配置日志，再加载贺卡配置
func prepare() (*config.GreetingConfig, error) {
	app.ConfigureLogging(verbose)

	greeting, err := loadGreeting(configPath)
	if err != nil {
		return nil, err
	}
	if fullscreen {
		greeting.Window.Fullscreen = true
	}
	return greeting, nil
}

// loadGreeting 加载贺卡配置
//
// 显式指定的配置文件必须有效，否则启动失败；
// 嵌入的默认配置损坏时退回内置默认值，只记录日志。
func loadGreeting(path string) (*config.GreetingConfig, error) {
	if path != "" {
		cfg, err := config.LoadGreetingConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load --config: %w", err)
		}
		return cfg, nil
	}

	data, err := embedded.ReadFile(defaultConfigPath)
	if err != nil {
		log.Printf("[Config] Warning: embedded config unavailable, using defaults: %v", err)
		return config.DefaultGreetingConfig(), nil
	}
	cfg, err := config.ParseGreetingConfig(data)
	if err != nil {
		log.Printf("[Config] Warning: embedded config invalid, using defaults: %v", err)
		return config.DefaultGreetingConfig(), nil
	}
	return cfg, nil
}
