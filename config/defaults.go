package config

import (
	"github.com/spf13/viper"
)

var defaultInstruments = []string{"AAPL", "MSFT", "GOOG", "AMZN", "TSLA", "NVDA", "META", "JPM", "V", "JNJ"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", ".")

	v.SetDefault("engine.ladder.min_price", "50")
	v.SetDefault("engine.ladder.tick_size", "0.1")
	v.SetDefault("engine.ladder.levels", 501)
	v.SetDefault("engine.pool_chunk_size", 1<<20)
	v.SetDefault("engine.index_capacity", 1024)
	v.SetDefault("engine.batch_size", 256)
	v.SetDefault("engine.buffer_size", 64)

	instruments := make([]map[string]any, len(defaultInstruments))
	for i, name := range defaultInstruments {
		instruments[i] = map[string]any{"name": name}
	}
	v.SetDefault("instruments", instruments)

	v.SetDefault("generator.instructions", 1_000_000)
	v.SetDefault("generator.initial_id", 1000)
	v.SetDefault("generator.initial_timestamp", uint64(1694778123456789))
	v.SetDefault("generator.min_price", "50")
	v.SetDefault("generator.max_price", "500")
	v.SetDefault("generator.price_decimals", 2)
	v.SetDefault("generator.min_quantity", 1)
	v.SetDefault("generator.max_quantity", 100)
	v.SetDefault("generator.quantity_multiplier", 10)
	v.SetDefault("generator.add_weight", 60)
	v.SetDefault("generator.cancel_weight", 20)
	v.SetDefault("generator.edit_weight", 20)
	v.SetDefault("generator.stale_probability", 1.0/50_000_000)
	v.SetDefault("generator.seed", 0)

	v.SetDefault("report.histogram", false)
	v.SetDefault("report.block_size", 10_000_000)
	v.SetDefault("report.color", true)

	v.SetDefault("log.production", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9090")
}
