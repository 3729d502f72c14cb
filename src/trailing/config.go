package trailing

import (
	"fmt"

	"trailexecutor/src/risk"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Strategy string `envconfig:"TRAIL_STRATEGY" default:"volume_atr"`

	BaseMultiplier    float64 `envconfig:"BASE_MULTIPLIER" default:"3.0"`
	VolumeSensitivity float64 `envconfig:"VOLUME_SENSITIVITY" default:"1.5"`
	MinMultiplier     float64 `envconfig:"MIN_MULTIPLIER" default:"1.5"`
	MaxMultiplier     float64 `envconfig:"MAX_MULTIPLIER" default:"6.0"`

	MinProfitToStart      float64 `envconfig:"MIN_PROFIT_TO_START" default:"0.10"`
	ExtraSafetyBuffer     float64 `envconfig:"EXTRA_SAFETY_BUFFER" default:"1.00"`
	RemoveProfitThreshold float64 `envconfig:"REMOVE_PROFIT_THRESHOLD" default:"0.0"`
	CommissionPerLot      float64 `envconfig:"COMMISSION_PER_LOT" default:"0.0"`

	ATRPeriod      int `envconfig:"ATR_PERIOD" default:"14"`
	VolumeLookback int `envconfig:"VOLUME_LOOKBACK" default:"20"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// ProfitParams converts the float config surface into the decimal values the
// profit math runs on. Conversion happens once, at engine construction.
func (c Config) ProfitParams() risk.ProfitParams {
	return risk.ProfitParams{
		MinProfitToStart:  decimal.NewFromFloat(c.MinProfitToStart),
		ExtraSafetyBuffer: decimal.NewFromFloat(c.ExtraSafetyBuffer),
		CommissionPerLot:  decimal.NewFromFloat(c.CommissionPerLot),
	}
}
