package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"propertyfinder-monitor/config"
	"propertyfinder-monitor/models"
	"propertyfinder-monitor/scraper/propertyfinder"
	"propertyfinder-monitor/services"
	"propertyfinder-monitor/storage"
	"propertyfinder-monitor/utils"
)

func main() {
	if err := godotenv.Load(); err == nil {
		utils.Info("Loaded .env")
	}

	cfg := config.Load()
	utils.Info("Monitor starting | pages=%d headless=%v criteria=%dBR <=%d AED >=%d sqft",
		cfg.MaxPages, cfg.Headless, cfg.Criteria.Bedrooms, cfg.Criteria.MaxPrice, cfg.Criteria.MinSize)

	searchURL := cfg.SearchURL
	if searchURL == "" {
		searchURL = propertyfinder.SearchURL(cfg.Criteria)
	}

	store, err := storage.LoadSeenStore(cfg.SeenFile)
	if err != nil {
		utils.Fatal("Could not load seen store: %v", err)
	}
	utils.Info("Seen store: %d known listings", store.Len())

	notifier := services.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.MaxRetries)
	if !notifier.Enabled() {
		utils.Warn("Telegram credentials missing; notifications will be printed only")
	}

	utils.Section("SCRAPE")

	session, err := propertyfinder.NewSession(cfg)
	if err != nil {
		utils.Fatal("Could not start browser: %v", err)
	}
	defer session.Close()

	extractor := propertyfinder.NewExtractor(propertyfinder.NewSearchCardParser(cfg.Location))
	navigator := propertyfinder.NewNavigator(session, extractor, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GlobalTimeout)
	defer cancel()

	listings, err := navigator.FetchAll(ctx, searchURL)
	if err != nil {
		session.Close()
		alert(notifier, services.ErrorMessage(err))
		utils.Fatal("Check failed: %v", err)
	}

	utils.Section("ARCHIVE")

	archive(cfg, listings)

	utils.Section("FILTER")

	filter := services.NewDedupFilter(store, cfg.Criteria)
	fresh, err := filter.FilterNew(listings)
	if err != nil {
		session.Close()
		alert(notifier, services.ErrorMessage(err))
		utils.Fatal("Filter failed: %v", err)
	}

	utils.Section("NOTIFY")

	if len(fresh) == 0 {
		utils.Info("No new listings found.")
		if cfg.NotifyOnEmpty {
			if err := notifier.Send(services.EmptyRunMessage); err != nil {
				utils.Error("Could not send empty-run notice: %v", err)
			}
		}
	} else {
		utils.Success("Found %d new listings!", len(fresh))
		for _, l := range fresh {
			msg := services.FormatNotification(l, time.Now())
			if !notifier.Enabled() {
				fmt.Println(msg)
				continue
			}
			if err := notifier.Send(msg); err != nil {
				utils.Error("✗ Failed to send notification for %s: %v", l.ID, err)
				continue
			}
			utils.Success("✓ Sent notification for %s", l.ID)
		}
	}

	printSummary(len(listings), len(fresh))
	report := services.GenerateReport(listings, cfg.Criteria)
	services.PrintReport(report)
}

// alert sends a failure message on a best effort basis before exit.
func alert(n *services.TelegramNotifier, msg string) {
	if err := n.Send(msg); err != nil {
		utils.Error("Could not send failure alert: %v", err)
	}
}

// archive saves the raw extracted set for later analysis. Archive trouble
// never fails the run; the dedup contract lives in the seen store.
func archive(cfg *config.Config, listings []models.Listing) {
	if len(listings) == 0 {
		utils.Warn("Nothing to archive.")
		return
	}

	writer := storage.NewCSVWriter(cfg.CSVPath)
	if err := writer.Write(listings); err != nil {
		utils.Warn("CSV archive failed: %v", err)
	}

	if cfg.DatabaseURL == "" {
		return
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DatabaseURL)
	if err != nil {
		utils.Warn("Postgres unavailable: %v", err)
		return
	}
	defer pgWriter.Close()

	if err := pgWriter.EnsureSchema(); err != nil {
		utils.Warn("Could not ensure Postgres schema: %v", err)
		return
	}
	if err := pgWriter.WriteBatch(listings); err != nil {
		utils.Warn("Could not archive to Postgres: %v", err)
		return
	}
	utils.Success("Archived %d listings to PostgreSQL", len(listings))
}

func printSummary(total, fresh int) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║                CHECK COMPLETE                ║")
	fmt.Println("╠══════════════════════════════════════════════╣")
	fmt.Printf("║  Listings checked : %-25d║\n", total)
	fmt.Printf("║  New matches      : %-25d║\n", fresh)
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Println()
}
