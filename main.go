package main

import (
	"embed"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// cliOptions are the command line overrides applied on top of the config file.
type cliOptions struct {
	minDuration    time.Duration
	minDurationSet bool
	logLevel       string
	showHelp       bool
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet(AppTitle, flag.ContinueOnError)
	fs.DurationVar(&opts.minDuration, "min-duration", 0, "启动画面最短显示时间 (例如 3s)")
	fs.StringVar(&opts.logLevel, "log-level", "", "日志级别: error, info, debug")
	fs.BoolVar(&opts.showHelp, "help", false, "显示此帮助信息")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "min-duration" {
			opts.minDurationSet = true
		}
	})
	return opts, nil
}

// apply copies set flags into cfg. A negative -min-duration disables the
// floor, same as a negative value in the config file.
func (o cliOptions) apply(cfg *AppConfig) {
	if o.minDurationSet {
		cfg.SplashMinDuration = max(o.minDuration, 0)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.showHelp {
		fmt.Printf("%s v%s\n\n", AppTitle, AppVersion)
		fmt.Println("用法:")
		fmt.Printf("  %s [选项]\n\n", os.Args[0])
		fmt.Println("选项:")
		fmt.Println("  -min-duration 3s   启动画面最短显示时间")
		fmt.Println("  -log-level debug   日志级别 (error, info, debug)")
		fmt.Println("  -help              显示此帮助信息")
		fmt.Println()
		fmt.Printf("配置文件: %s\n", configPath())
		return
	}

	releaseLock := ensureSingleInstance()
	defer releaseLock()

	cfg := LoadConfig()
	opts.apply(cfg)

	logFile, err := InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Println("初始化日志失败:", err)
	} else {
		defer logFile.Close()
	}
	Log.Info("启动", "version", AppVersion, "minDuration", cfg.SplashMinDuration, "readyEvent", cfg.ReadyEvent)

	splash := NewSplashWindow(cfg.SplashTitle)
	splash.SetText(cfg.SplashText)
	if err := splash.Show(); err != nil {
		// The coordinator still closes it; the user just sees no splash.
		Log.Error("显示启动画面失败", "error", err)
	}

	var history *LaunchHistory
	if cfg.HistoryEnabled {
		history, err = OpenLaunchHistory(DataPath("launches.db"), cfg.HistoryKeep)
		if err != nil {
			Log.Error("打开启动记录失败，已禁用", "error", err)
			history = nil
		}
	}

	app := NewDesktopApp(cfg, splash, history)

	err = wails.Run(&options.App{
		Title:       AppTitle,
		Width:       cfg.WindowWidth,
		Height:      cfg.WindowHeight,
		MinWidth:    640,
		MinHeight:   480,
		StartHidden: true,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 17, G: 24, B: 39, A: 1},
		OnStartup:        app.startup,
		OnDomReady:       app.onDomReady,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		app.abort(fmt.Errorf("wails run: %w", err))
	}
}
