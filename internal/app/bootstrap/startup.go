// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup applies the process-wide settings that the stores read: operation
// timeouts and the transaction requirement. Production always requires
// transactions.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeoutConfig(appCfg))
	txn.Require(appCfg.RequireTransactions || coreCfg.Env == "prod")

	cur := timeouts.Current()
	logger.Info("startup settings applied",
		zap.Duration("timeout_short", cur.Short),
		zap.Duration("timeout_medium", cur.Medium),
		zap.Duration("timeout_long", cur.Long),
		zap.Duration("timeout_batch", cur.Batch),
		zap.Bool("require_transactions", txn.Required()),
		zap.Int("import_chunk_size", appCfg.ImportChunkSize))
	return nil
}

func timeoutConfig(appCfg AppConfig) timeouts.Config {
	return timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
		Batch:  appCfg.TimeoutBatch,
	}
}
