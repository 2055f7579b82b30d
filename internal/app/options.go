package app

import (
	"os"
	"time"

	"github.com/tokoline/tokoline/internal/config"
	"github.com/tokoline/tokoline/internal/logger"

	"go.uber.org/zap"
)

// 启动模式，决定本进程是跑 API、Worker 还是两者都跑。
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// withDefaults 补齐未设置的选项
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	return o
}
