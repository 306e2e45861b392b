// Package bot routes raw inbound chat messages to the service layer and
// renders localized replies. One inbound message can fan out to several
// recipients: the sender gets a confirmation or guidance, and the
// administrator gets a shadow copy of every mutating action plus actionable
// follow-up commands for deferred food requests.
//
// The package is transport-agnostic: it consumes (sender id, text) and
// produces a recipient→message map; delivery belongs to the HTTP layer and
// the outbox job.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/i18n"
	"github.com/nutrilog/nutrilog/internal/parser"
	"github.com/nutrilog/nutrilog/internal/repo"
	"github.com/nutrilog/nutrilog/internal/services"
)

// Default daily targets assigned to newly created profiles.
const (
	DefaultDailyCalories = 1538
	DefaultDailyFat      = 44
	DefaultDailyCarbs    = 205
	DefaultDailyProtein  = 94
)

// Router dispatches inbound messages to services and renders replies.
type Router struct {
	DB *gorm.DB

	Catalog *services.CatalogService
	Entries *services.EntryService
	Reports *services.ReportService
	Weights *services.WeightService
	Cancels *services.CancelService

	// OwnerID is the external chat id of the administrator.
	OwnerID int64
	// AllowNewUsers gates lazy account creation. Known users are always
	// served.
	AllowNewUsers bool
	// DefaultLocale is used when the platform supplies no language code.
	DefaultLocale string
}

// New wires a Router over one database handle.
func New(db *gorm.DB, ownerID int64, allowNewUsers bool, defaultLocale string) *Router {
	logs := services.NewLogService(db)
	reports := services.NewReportService(db)
	return &Router{
		DB:            db,
		Catalog:       services.NewCatalogService(db),
		Entries:       services.NewEntryService(db, logs, reports),
		Reports:       reports,
		Weights:       services.NewWeightService(db),
		Cancels:       services.NewCancelService(db),
		OwnerID:       ownerID,
		AllowNewUsers: allowNewUsers,
		DefaultLocale: defaultLocale,
	}
}

// Replies accumulates outgoing messages per recipient. Multiple messages to
// one recipient are joined with newlines in arrival order.
type Replies map[int64][]string

// Add appends a message for the recipient.
func (r Replies) Add(recipient int64, msg string) {
	r[recipient] = append(r[recipient], msg)
}

// Flatten joins each recipient's messages into one string.
func (r Replies) Flatten() map[int64]string {
	out := make(map[int64]string, len(r))
	for id, msgs := range r {
		out[id] = strings.Join(msgs, "\n")
	}
	return out
}

// Inbound is one received chat message.
type Inbound struct {
	SenderID     int64
	SenderName   string
	LanguageCode string
	Text         string
}

// HandleMessage processes one inbound message end to end and returns the
// replies to deliver. Unknown senders are dropped silently when new-user
// creation is disabled.
func (b *Router) HandleMessage(ctx context.Context, in Inbound) (map[int64]string, error) {
	user, err := b.ensureUser(ctx, in)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Warn().Int64("sender_id", in.SenderID).Msg("message from unknown sender dropped")
		return map[int64]string{}, nil
	}

	replies := Replies{}
	text := strings.TrimSpace(in.Text)
	switch {
	case text == "":
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
	case strings.HasPrefix(text, "/"):
		b.dispatchCommand(ctx, user, text, replies)
	case isWeightEntry(text):
		b.handleWeight(ctx, user, text, replies)
	default:
		b.handleFoodEntry(ctx, user, text, replies)
	}
	return replies.Flatten(), nil
}

// ensureUser loads the sender's account, creating it lazily when permitted.
// The owner is always provisioned regardless of the gate.
func (b *Router) ensureUser(ctx context.Context, in Inbound) (*domain.User, error) {
	user, err := repo.GetUserByTelegramID(ctx, b.DB, in.SenderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !b.AllowNewUsers && in.SenderID != b.OwnerID {
		return nil, nil
	}

	locale := in.LanguageCode
	if locale == "" {
		locale = b.DefaultLocale
	}
	user, err = repo.CreateUserWithProfile(ctx, b.DB, in.SenderID, in.SenderName, locale, domain.UserProfile{
		DailyCalories: DefaultDailyCalories,
		DailyFat:      DefaultDailyFat,
		DailyCarbs:    DefaultDailyCarbs,
		DailyProtein:  DefaultDailyProtein,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := repo.EnsureDigestMark(ctx, b.DB, user.ID, domain.Today()); err != nil {
		return nil, fmt.Errorf("digest mark: %w", err)
	}
	log.Info().Int64("telegram_id", in.SenderID).Str("locale", locale).Msg("user created")
	return user, nil
}

// isWeightEntry matches the bare "weight <value>" form; the slash form is
// routed through dispatchCommand.
func isWeightEntry(text string) bool {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return false
	}
	w := strings.ToLower(fields[0])
	return w == "weight" || w == "вес"
}

func (b *Router) handleWeight(ctx context.Context, user *domain.User, text string, replies Replies) {
	fields := strings.Fields(text)
	value, err := parser.ParseQuantity(fields[len(fields)-1])
	if err != nil {
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		return
	}
	wl, err := b.Weights.LogWeight(ctx, user, value, text)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCommand) {
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
			return
		}
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("weight entry failed")
		return
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.WeightLogged, wl.Weight))
	b.shadowCopy(user, text, replies)
}

func (b *Router) handleFoodEntry(ctx context.Context, user *domain.User, text string, replies Replies) {
	out, err := b.Entries.HandleEntry(ctx, user, text)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCommand) {
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
			return
		}
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("food entry failed")
		return
	}
	b.renderOutcome(ctx, user, out, replies)
	b.shadowCopy(user, text, replies)
}

// renderOutcome turns an entry outcome into replies: a confirmation with the
// running remainder on success, or captured-request notices with owner
// guidance parameterized by the failure kind.
func (b *Router) renderOutcome(ctx context.Context, user *domain.User, out *services.EntryOutcome, replies Replies) {
	if out.Failure == nil {
		res := out.Resolved
		foodName := repo.FoodDisplayName(ctx, b.DB, res.Food.ID, user.Locale)
		unitName := repo.UnitDisplayName(ctx, b.DB, res.Unit.ID, user.Locale)
		qty := formatQty(res.Log.Qty) + " " + unitName
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.FoodLogged, foodName, qty,
			res.Log.Calories, res.Log.Fat, res.Log.Carbs, res.Log.Protein))
		rem := out.Remainder
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DayRemainder,
			rem.CaloriesLeft, rem.FatLeft, rem.CarbsLeft, rem.ProteinLeft))
		return
	}

	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.RequestCaptured, out.Request.Request))

	ownerLocale := b.ownerLocale(ctx)
	replies.Add(b.OwnerID, i18n.T(ownerLocale, i18n.OwnerNewRequest, out.Request.ID, user.Name, out.Request.Request))
	replies.Add(b.OwnerID, b.guidance(ownerLocale, out))
}

// guidance builds the ready-to-send administrator command for the failure.
func (b *Router) guidance(locale string, out *services.EntryOutcome) string {
	entry := out.Entry
	reqID := out.Request.ID
	switch {
	case errors.Is(out.Failure, services.ErrFoodNotFound):
		cmd := fmt.Sprintf("/add_food %q --cal=? --fat=? --carbs=? --protein=? --request=%d", entry.Food, reqID)
		return i18n.T(locale, i18n.OwnerGuideFood, cmd)
	case errors.Is(out.Failure, services.ErrUnitNotFound):
		add := fmt.Sprintf("/add_unit %q", entry.Unit)
		define := fmt.Sprintf("/define_unit %q %q --grams=? --request=%d", entry.Food, entry.Unit, reqID)
		return i18n.T(locale, i18n.OwnerGuideUnit, add, define)
	default:
		unit := entry.Unit
		if unit == "" {
			// No unit in the utterance means the food lacks a default
			// serving; suggest one.
			unit = "g"
		}
		define := fmt.Sprintf("/define_unit %q %q --grams=100 --request=%d", entry.Food, unit, reqID)
		return i18n.T(locale, i18n.OwnerGuideDefine, define)
	}
}

// shadowCopy mirrors a user's mutating action to the administrator.
func (b *Router) shadowCopy(user *domain.User, text string, replies Replies) {
	if user.TelegramID == b.OwnerID {
		return
	}
	replies.Add(b.OwnerID, fmt.Sprintf("%d %s: %s", user.TelegramID, user.Name, strings.TrimSpace(text)))
}

func (b *Router) ownerLocale(ctx context.Context) string {
	owner, err := repo.GetUserByTelegramID(ctx, b.DB, b.OwnerID)
	if err != nil {
		return b.DefaultLocale
	}
	return owner.Locale
}

// formatQty renders a quantity without trailing zeros.
func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
