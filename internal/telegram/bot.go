package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/app"
	"ai-fitness-planner/internal/config"
	"ai-fitness-planner/internal/metrics"
	"ai-fitness-planner/internal/planner"
	"ai-fitness-planner/internal/validation"
)

const requestTimeout = 30 * time.Second

const helpText = "🏋️ *Fitness Planner*\n\n" +
	"/diet <calories> - daily meal plan, e.g. `/diet 2000`\n" +
	"/workout <goal> - five exercise workout, e.g. `/workout strength`\n" +
	"/help - this message"

// Bot wraps the Telegram API and the planner application.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	metricsStore *metrics.Store
	cfg          *config.Config
	log          logrus.FieldLogger
}

// NewBot initializes the Telegram Bot and sets the Webhook. metricsStore may
// be nil, in which case /metrics reports system health only.
func NewBot(cfg *config.Config, a *app.App, metricsStore *metrics.Store, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init telegram api")
	}
	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid webhook url %s", cfg.TelegramWebhookURL)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set webhook to %s", cfg.TelegramWebhookURL)
	}
	log.WithField("response", resp.Description).Info("webhook set")

	return &Bot{
		api:          api,
		app:          a,
		metricsStore: metricsStore,
		cfg:          cfg,
		log:          log,
	}, nil
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.WithError(err).Warn("error parsing update")
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		b.log.WithFields(logrus.Fields{
			"user_id":  update.Message.From.ID,
			"username": update.Message.From.UserName,
		}).Warn("unauthorized access attempt")
		return
	}

	go b.processMessage(update.Message)
}

// isAllowed reports whether userID may use the bot. An empty allow-list
// admits everyone.
func (b *Bot) isAllowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	return slices.Contains(b.cfg.TelegramAllowedUserIDs, userID) || userID == b.cfg.AdminTelegramID
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	text := b.respond(ctx, msg.From.ID, msg.Command(), msg.CommandArguments())
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(reply); err != nil {
		b.log.WithError(err).WithField("chat_id", msg.Chat.ID).Warn("failed to send reply")
	}
}

// respond runs a command and renders the reply text.
func (b *Bot) respond(ctx context.Context, userID int64, command, args string) string {
	log := b.log.WithFields(logrus.Fields{"user_id": userID, "command": command})

	switch command {
	case "diet":
		plan, err := b.app.RecommendDiet(ctx, validation.DietRequest{Calories: json.Number(strings.TrimSpace(args))})
		if err != nil {
			return b.errorText(log, err)
		}
		return formatDietPlan(plan)
	case "workout":
		plan, err := b.app.RecommendWorkout(ctx, validation.WorkoutRequest{Goal: args})
		if err != nil {
			return b.errorText(log, err)
		}
		return formatWorkoutPlan(plan)
	case "metrics":
		if userID != b.cfg.AdminTelegramID {
			return "⛔ *Access Denied*: Admin only."
		}
		return b.metricsReport(ctx, log)
	default:
		return helpText
	}
}

func (b *Bot) errorText(log logrus.FieldLogger, err error) string {
	var vErr *validation.ValidationError
	if errors.As(err, &vErr) {
		return "⚠️ " + tgbotapi.EscapeText(tgbotapi.ModeMarkdown, vErr.Message)
	}
	log.WithError(err).Error("plan generation failed")
	if errors.Is(err, planner.ErrInsufficientExercises) {
		return "❌ Not enough exercises in the catalog to build a workout."
	}
	return "❌ Something went wrong, please try again later."
}

func (b *Bot) metricsReport(ctx context.Context, log logrus.FieldLogger) string {
	var usage []metrics.DailyUsage
	if b.metricsStore != nil {
		var err error
		usage, err = b.metricsStore.GetDailyUsage(ctx, 7)
		if err != nil {
			log.WithError(err).Error("failed to fetch metrics")
			return "❌ Error fetching metrics."
		}
	}
	health := metrics.GetSysHealth(b.cfg.NutritionDataPath, b.cfg.WorkoutDataPath)
	return formatMetricsReport(usage, health, b.metricsStore != nil)
}

func formatDietPlan(plan planner.DietPlan) string {
	var sb strings.Builder
	sb.WriteString("🥗 *Daily Meal Plan*\n\n")
	for _, meal := range plan {
		sb.WriteString(fmt.Sprintf("*%s* (~%d kcal)\n", meal.Meal, meal.Calories))
		for _, item := range meal.Items {
			sb.WriteString(fmt.Sprintf("• %s - %g kcal\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, item.Name), item.Calories))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatWorkoutPlan(plan planner.WorkoutPlan) string {
	var sb strings.Builder
	sb.WriteString("💪 *Workout Plan*\n\n")
	for i, p := range plan {
		sb.WriteString(fmt.Sprintf("%d. *%s*: %d x %d, %d min\n",
			i+1, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, p.Exercise), p.Sets, p.Reps, p.DurationMinutes))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatMetricsReport(usage []metrics.DailyUsage, health metrics.SysHealth, enabled bool) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	switch {
	case !enabled:
		sb.WriteString("_Metrics disabled_\n")
	case len(usage) == 0:
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d diets, %d workouts, %d rejected, %d failed, %d fallbacks, %d tokens\n",
			d.Date, d.DietPlans, d.WorkoutPlans, d.Rejected, d.Failed, d.ScoreFallbacks, d.TotalTokens))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Reference Data: %s\n", health.DataSize))
	return sb.String()
}
