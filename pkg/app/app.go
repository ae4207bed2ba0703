package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zurustar/sybl/pkg/cli"
	"github.com/zurustar/sybl/pkg/config"
	"github.com/zurustar/sybl/pkg/logger"
	"github.com/zurustar/sybl/pkg/script"
	"github.com/zurustar/sybl/pkg/vm"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
	program script.Program
	machine *vm.VM
}

// Option Applicationの設定オプション
type Option func(*Application)

// WithStdout スクリプトの出力先を設定（デフォルト: os.Stdout）
func WithStdout(w io.Writer) Option {
	return func(app *Application) {
		app.stdout = w
	}
}

// WithStderr ログの出力先を設定（デフォルト: os.Stderr）
func WithStderr(w io.Writer) Option {
	return func(app *Application) {
		app.stderr = w
	}
}

// New Applicationを作成
func New(opts ...Option) *Application {
	app := &Application{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. 設定ファイルの読み込み
	configPath, err := config.Merge(app.config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := app.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started", "script", app.config.ScriptPath, "config", configPath)

	// 4. スクリプトファイルの読み込み
	s, err := app.loadScript()
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}

	app.log.Info("Script loaded", "name", s.FileName, "size", s.Size, "encoding", app.config.Encoding)
	app.log.Debug("Script content preview", "name", s.FileName, "preview", truncate(s.Content, 100))

	// 5. プログラム行への分割
	app.program = script.Split(s.Content)
	app.log.Info("Program prepared", "line_count", len(app.program))

	// 6. 実行
	if err := app.runProgram(); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerWithWriter(app.stderr, app.config.LogLevel, app.config.LogFormat); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadScript スクリプトファイルを読み込む
func (app *Application) loadScript() (*script.Script, error) {
	loader := script.NewLoader(app.config.Encoding)
	return loader.Load(app.config.ScriptPath)
}

// runProgram VMでプログラムを実行する
// SIGINT/SIGTERMを受け取った場合は次の文の前で停止する
func (app *Application) runProgram() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := bufio.NewWriter(app.stdout)

	app.machine = vm.New(app.program,
		vm.WithOutput(out),
		vm.WithLogger(app.log),
		vm.WithTimeout(app.config.Timeout),
	)

	runErr := app.machine.Run(ctx)

	// 出力の書き込み失敗は致命的ではない
	if err := out.Flush(); err != nil {
		app.log.Warn("Failed to flush output", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	diagnostics := app.machine.Diagnostics()
	for _, d := range diagnostics {
		app.log.Debug("Script diagnostic", "type", d.Type, "line", d.Line, "statement", d.Context, "message", d.Message)
	}
	app.log.Info("Script finished",
		"variables", app.machine.Store().Len(),
		"diagnostics", len(diagnostics)+app.machine.DroppedDiagnostics())

	return nil
}

// Diagnostics 直前の実行で記録された診断を返す
func (app *Application) Diagnostics() []*vm.RuntimeError {
	if app.machine == nil {
		return nil
	}
	return app.machine.Diagnostics()
}

// truncate 文字列を指定長で切り詰める
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
