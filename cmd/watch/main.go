package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkellerny/Fire-Watch-GUI/internal/api/twelvedata"
	"github.com/dkellerny/Fire-Watch-GUI/internal/calculate"
	"github.com/dkellerny/Fire-Watch-GUI/internal/config"
	"github.com/dkellerny/Fire-Watch-GUI/internal/news"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	symbol := flag.String("symbol", "AAPL", "ticker symbol to inspect")
	timeframe := flag.String("timeframe", "ttm", "display timeframe (1d, 1mo, 3mo, 6mo, ytd, ttm, 5y, max)")
	showNews := flag.Bool("news", false, "also print headlines for the symbol")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if cfg.TwelveAPIKey == "" {
		log.Fatal().Msg("TWELVE_API_KEY is required")
	}

	tf, ok := models.LookupTimeframe(*timeframe)
	if !ok {
		log.Fatal().Str("timeframe", *timeframe).Msg("Unknown timeframe")
	}

	client := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})

	ctx := context.Background()

	quote, err := client.GetQuote(ctx, *symbol)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", *symbol).Msg("Quote fetch failed")
	}
	fmt.Printf("%s  price=%.2f  change=%+.2f (%+.2f%%)  volume=%d\n",
		quote.Symbol, quote.Price, quote.Change, quote.ChangePct, quote.Volume)

	candles, err := client.GetHistory(ctx, *symbol, tf)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", *symbol).Msg("History fetch failed")
	}

	snapshot, err := calculate.Snapshot(*symbol, tf.Name, candles, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Indicator calculation failed")
	}

	fmt.Printf("\n%s trends (%s, %d candles)\n", *symbol, tf.Name, len(candles))
	fmt.Printf("RSI(%d):   %.2f\n", cfg.RSIPeriod, snapshot.RSI)
	fmt.Printf("SMA %d/%d: %.2f / %.2f\n", cfg.SMAFast, cfg.SMASlow, snapshot.SMAFast, snapshot.SMASlow)
	fmt.Printf("EMA(%d):   %.2f\n", cfg.EMAPeriod, snapshot.EMA)
	fmt.Printf("Bollinger: %.2f / %.2f / %.2f\n", snapshot.BBUpper, snapshot.BBMiddle, snapshot.BBLower)
	fmt.Printf("ADX:       %.2f (+DI %.2f, -DI %.2f)\n", snapshot.ADX, snapshot.PlusDI, snapshot.MinusDI)
	fmt.Printf("ATR(%d):   %.4f\n", cfg.ATRPeriod, snapshot.ATR)

	if *showNews {
		newsClient := news.NewClient(news.ClientOptions{
			APIKey:         cfg.NewsAPIKey,
			RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
			RequestsPerSec: cfg.RequestsPerSec,
		})
		articles, err := newsClient.GetNews(ctx, *symbol+" stock", 5)
		if err != nil {
			log.Warn().Err(err).Msg("News fetch failed")
			return
		}
		fmt.Println("\nHeadlines:")
		for _, a := range articles {
			fmt.Printf("- %s (%s)\n", a.Title, a.URL)
		}
	}
}
