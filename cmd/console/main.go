package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"trailexecutor/src/connectors"
	"trailexecutor/src/controller"
	"trailexecutor/src/model"
	"trailexecutor/src/security"
	"trailexecutor/src/trailing"
)

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel // fallback seguro
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})

	logger.WithField("level", level.String()).
		Info("Logger initialized for bridge console")
}

func printUsage() {
	fmt.Println("Available commands:")
	fmt.Println("  help                             Show this help message")
	fmt.Println("  shutdown                         Exit the application")
	fmt.Println("  ping                             Check gateway connectivity")
	fmt.Println("  positions [SYMBOL]               List open positions")
	fmt.Println("  info SYMBOL                      Show contract parameters")
	fmt.Println("  rates SYMBOL TIMEFRAME COUNT     Show recent bars")
	fmt.Println("  decide TICKET                    Dry-run the engine on one position")
	fmt.Println("  modify-sl TICKET SL              Move the stop of a position")
	fmt.Println("  remove-sl TICKET                 Remove the stop of a position")
	fmt.Println("  watch SYMBOL [SYMBOL...]         Subscribe the quote stream (live only)")
	fmt.Println("  quotes                           Show the cached quotes (live only)")
	fmt.Println("  strategies                       List registered strategies")
	fmt.Println()
}

func printJSON(data any) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		logger.WithError(err).Error("failed to marshal JSON for printing")
		fmt.Println("JSON error:", err)
		return
	}
	fmt.Println(string(b))
}

func printPositions(positions []model.Position) {
	if len(positions) == 0 {
		fmt.Println("No open positions.")
		return
	}

	for _, p := range positions {
		fmt.Println("------ OPEN POSITION ------")
		fmt.Printf("Ticket:     %d\n", p.Ticket)
		fmt.Printf("Symbol:     %s\n", p.Symbol)
		fmt.Printf("Type:       %s\n", p.Type)
		fmt.Printf("Volume:     %v\n", p.Volume)
		fmt.Printf("OpenPrice:  %v\n", p.PriceOpen)
		fmt.Printf("Current:    %v\n", p.PriceCurrent)
		fmt.Printf("StopLoss:   %v\n", p.StopLoss)
		fmt.Printf("TakeProfit: %v\n", p.TakeProfit)
		fmt.Printf("Profit:     %v\n", p.Profit)
		fmt.Println("---------------------------")
	}
}

func buildGateway(ctx context.Context) (connectors.Gateway, *connectors.BridgeClient, error) {
	config := connectors.GetConfig()

	if config.BridgeLive {
		secret := config.BridgeAPISecret
		if config.BridgeAPISecretEnc != "" {
			decrypted, err := security.DecryptString(config.BridgeAPISecretEnc)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to decrypt bridge secret: %w", err)
			}
			secret = decrypted
		}
		client := connectors.NewBridgeClient(config.BridgeAPIKey, secret, config.BridgeBaseURL)
		return client, client, nil
	}

	gateway := connectors.NewReplayGateway(nil)
	if config.ReplayFixture != "" {
		if err := gateway.LoadFixture(config.ReplayFixture); err != nil {
			return nil, nil, fmt.Errorf("failed to load replay fixture: %w", err)
		}
	}
	return gateway, nil, nil
}

func findPosition(ctx context.Context, gateway connectors.Gateway, ticket int64) (model.Position, error) {
	positions, err := gateway.ListPositions(ctx, connectors.PositionFilter{Ticket: ticket})
	if err != nil {
		return model.Position{}, err
	}
	if len(positions) == 0 {
		return model.Position{}, fmt.Errorf("no open position with ticket %d", ticket)
	}
	return positions[0], nil
}

func main() {
	SetupLogger()

	ctx := context.Background()

	gateway, liveClient, err := buildGateway(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build gateway")
	}

	trailConfig := trailing.GetConfig()
	engine, err := trailing.NewEngine(trailConfig.Strategy, trailConfig)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build trailing engine")
	}

	trailCtl := controller.GetConfig()

	reader := bufio.NewScanner(os.Stdin)
	fmt.Println("Bridge console ready. Type 'help' for a list of commands. Type 'shutdown' to exit.")
	logger.WithField("live", gateway.Live()).Info("Bridge console started")

	for {
		fmt.Print("bridge> ")

		if !reader.Scan() {
			if err := reader.Err(); err != nil {
				logger.WithError(err).Error("stdin scanner error")
			}
			continue
		}

		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		logger.WithField("command_line", line).Debug("Received CLI command")

		switch cmd {

		case "shutdown":
			logger.Info("Shutdown command received, exiting console")
			fmt.Println("Exiting console...")
			return

		case "help":
			printUsage()

		case "ping":
			if err := gateway.Ping(ctx); err != nil {
				logger.WithError(err).Error("ping failed")
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("OK")

		case "positions":
			filter := connectors.PositionFilter{}
			if len(parts) > 1 {
				filter.Symbol = parts[1]
			}

			logger.WithField("symbol", filter.Symbol).Info("Listing positions")

			positions, err := gateway.ListPositions(ctx, filter)
			if err != nil {
				logger.WithError(err).Error("failed to list positions")
				fmt.Println("Error:", err)
				continue
			}
			printPositions(positions)

		case "info":
			if len(parts) < 2 {
				fmt.Println("Usage: info SYMBOL")
				printUsage()
				continue
			}
			symbol := parts[1]

			logger.WithField("symbol", symbol).Info("Fetching symbol info")

			info, err := gateway.SymbolInfo(ctx, symbol)
			if err != nil {
				logger.WithError(err).Error("failed to fetch symbol info")
				fmt.Println("Error:", err)
				continue
			}
			printJSON(info)

		case "rates":
			if len(parts) < 4 {
				fmt.Println("Usage: rates SYMBOL TIMEFRAME COUNT")
				printUsage()
				continue
			}
			symbol, timeframe := parts[1], parts[2]
			count, err := strconv.Atoi(parts[3])
			if err != nil || count <= 0 {
				fmt.Println("COUNT must be a positive integer")
				continue
			}

			logger.WithFields(logger.Fields{
				"symbol":    symbol,
				"timeframe": timeframe,
				"count":     count,
			}).Info("Fetching rates")

			bars, err := gateway.Rates(ctx, symbol, timeframe, count)
			if err != nil {
				logger.WithError(err).Error("failed to fetch rates")
				fmt.Println("Error:", err)
				continue
			}
			printJSON(bars)

		case "decide":
			if len(parts) < 2 {
				fmt.Println("Usage: decide TICKET")
				printUsage()
				continue
			}
			ticket, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				fmt.Println("TICKET must be an integer")
				continue
			}

			logger.WithField("ticket", ticket).Info("Dry-running engine decision")

			pos, err := findPosition(ctx, gateway, ticket)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}

			info, err := gateway.SymbolInfo(ctx, pos.Symbol)
			if err != nil {
				logger.WithError(err).Error("failed to fetch symbol info")
				fmt.Println("Error:", err)
				continue
			}

			bars, err := gateway.Rates(ctx, pos.Symbol, trailCtl.Timeframe, trailCtl.BarCount)
			if err != nil {
				logger.WithError(err).Error("failed to fetch rates")
				fmt.Println("Error:", err)
				continue
			}

			decision, err := engine.Decide(pos, trailing.MarketContext{Bars: bars, Info: info})
			if err != nil {
				logger.WithError(err).Error("engine decision failed")
				fmt.Println("Error:", err)
				continue
			}

			fmt.Println("------ DECISION ------")
			fmt.Printf("Action:       %s\n", decision.Action)
			fmt.Printf("NewSL:        %s\n", decision.NewSL)
			fmt.Printf("LockedProfit: %s\n", decision.LockedProfit)
			fmt.Printf("Multiplier:   %s\n", decision.Multiplier)
			fmt.Printf("VolumeRatio:  %s\n", decision.VolumeRatio)
			fmt.Printf("ATR:          %s\n", decision.ATR)
			if decision.Reason != "" {
				fmt.Printf("Reason:       %s\n", decision.Reason)
			}
			fmt.Println("----------------------")

		case "modify-sl":
			if len(parts) < 3 {
				fmt.Println("Usage: modify-sl TICKET SL")
				printUsage()
				continue
			}
			ticket, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				fmt.Println("TICKET must be an integer")
				continue
			}
			newSL, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				fmt.Println("SL must be a number")
				continue
			}

			logger.WithFields(logger.Fields{
				"ticket": ticket,
				"sl":     newSL,
			}).Info("Modifying stop loss")

			pos, err := findPosition(ctx, gateway, ticket)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			info, err := gateway.SymbolInfo(ctx, pos.Symbol)
			if err != nil {
				logger.WithError(err).Error("failed to fetch symbol info")
				fmt.Println("Error:", err)
				continue
			}

			ok, err := gateway.ModifySL(ctx, connectors.ModifySLRequest{
				Ticket:     pos.Ticket,
				Symbol:     pos.Symbol,
				NewSL:      newSL,
				TakeProfit: pos.TakeProfit,
				Digits:     info.Digits,
			})
			if err != nil {
				logger.WithError(err).Error("failed to modify stop loss")
				fmt.Println("Error:", err)
				continue
			}
			if ok {
				fmt.Println("Stop modified.")
			} else {
				fmt.Println("Broker rejected the modification.")
			}

		case "remove-sl":
			if len(parts) < 2 {
				fmt.Println("Usage: remove-sl TICKET")
				printUsage()
				continue
			}
			ticket, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				fmt.Println("TICKET must be an integer")
				continue
			}

			logger.WithField("ticket", ticket).Info("Removing stop loss")

			pos, err := findPosition(ctx, gateway, ticket)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			info, err := gateway.SymbolInfo(ctx, pos.Symbol)
			if err != nil {
				logger.WithError(err).Error("failed to fetch symbol info")
				fmt.Println("Error:", err)
				continue
			}

			ok, err := gateway.ModifySL(ctx, connectors.ModifySLRequest{
				Ticket:     pos.Ticket,
				Symbol:     pos.Symbol,
				NewSL:      0,
				TakeProfit: pos.TakeProfit,
				Digits:     info.Digits,
			})
			if err != nil {
				logger.WithError(err).Error("failed to remove stop loss")
				fmt.Println("Error:", err)
				continue
			}
			if ok {
				fmt.Println("Stop removed.")
			} else {
				fmt.Println("Broker rejected the removal.")
			}

		case "watch":
			if liveClient == nil {
				fmt.Println("Quote stream requires the live bridge (BRIDGE_LIVE=true).")
				continue
			}
			if len(parts) < 2 {
				fmt.Println("Usage: watch SYMBOL [SYMBOL...]")
				printUsage()
				continue
			}
			wsURL := connectors.GetConfig().BridgeWSURL
			if wsURL == "" {
				fmt.Println("BRIDGE_WS_URL is not configured.")
				continue
			}

			symbols := parts[1:]
			logger.WithField("symbols", symbols).Info("Subscribing quote stream")
			liveClient.StartQuoteStream(ctx, wsURL, symbols)
			fmt.Println("Subscribed. Use 'quotes' to inspect the cache.")

		case "quotes":
			if liveClient == nil {
				fmt.Println("Quote stream requires the live bridge (BRIDGE_LIVE=true).")
				continue
			}

			snapshot := liveClient.QuoteSnapshot()
			if len(snapshot) == 0 {
				fmt.Println("No quotes cached yet.")
				continue
			}
			for _, q := range snapshot {
				fmt.Printf("%-10s bid=%v ask=%v time=%s\n", q.Symbol, q.Bid, q.Ask, q.Time.UTC().Format("15:04:05"))
			}

		case "strategies":
			for _, name := range trailing.Strategies() {
				fmt.Println(" ", name)
			}

		default:
			logger.WithField("cmd", cmd).Warn("Unknown command received")
			fmt.Println("Unknown command:", cmd)
			printUsage()
		}
	}
}
