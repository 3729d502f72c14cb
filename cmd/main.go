package main

import (
	"fmt"
	"os"

	"trailexecutor/cmd/ohlcvcrypto"
	"trailexecutor/cmd/trailer"
	"trailexecutor/src/database"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Trailexecutor CMD"
	app.Usage = "The trailexecutor command line interface"

	app.Commands = []cli.Command{
		trailerCMD,
		ohlcvCryptoCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	trailerCMD = cli.Command{
		Name:        "trailer",
		Usage:       "run the trailing stop executor",
		Action:      trailerAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the trailing stop executor CMD`,
	}
	ohlcvCryptoCMD = cli.Command{
		Name:        "ohlcv_crypto",
		Usage:       "run OHLCV crypto",
		Action:      ohlcvCryptoAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run OHLCV crypto CMD`,
	}
)

func trailerAction(_ *cli.Context) error {

	logrus.Info("Starting trailer CMD")
	logrus.WithField("cmd", "trailer")

	trailerCmd := &trailer.Trailer{}
	err := trailerCmd.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

// ohlcvCryptoAction backfills 1m OHLCV candles for the replay bar source
func ohlcvCryptoAction(_ *cli.Context) error {

	logrus.Info("Starting OHLCV crypto CMD")
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	_ohlcv := &ohlcvcrypto.OHLCVCrypto{
		Log: logrus.WithField("cmd", "ohlcv_crypto"),
		DB:  database.MainDB,
	}

	err := _ohlcv.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting OHLCV cmd")
		return err
	}

	return nil
}
