// Slash-command handling. User commands are available to everyone; the
// catalog commands mutate only for the configured administrator. Catalog
// commands accept --request=N to replay a stored food request after the
// catalog change, running the stored utterance as the user who sent it.

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/i18n"
	"github.com/nutrilog/nutrilog/internal/parser"
	"github.com/nutrilog/nutrilog/internal/repo"
	"github.com/nutrilog/nutrilog/internal/services"
)

func (b *Router) dispatchCommand(ctx context.Context, user *domain.User, text string, replies Replies) {
	name, rest, _ := strings.Cut(text, " ")
	name = strings.TrimPrefix(name, "/")
	// Group chats suffix commands with the bot's handle.
	name, _, _ = strings.Cut(name, "@")

	switch strings.ToLower(name) {
	case "start":
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.Start))
	case "help":
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.Help))
	case "today":
		b.handleToday(ctx, user, replies)
	case "settings":
		b.handleSettings(ctx, user, replies)
	case "cancel":
		b.handleCancel(ctx, user, text, replies)
	case "weight":
		b.handleWeight(ctx, user, "weight "+strings.TrimSpace(rest), replies)
	case "add_food":
		b.adminOnly(ctx, user, rest, replies, b.handleAddFood)
	case "add_unit":
		b.adminOnly(ctx, user, rest, replies, b.handleAddUnit)
	case "define_unit":
		b.adminOnly(ctx, user, rest, replies, b.handleDefineUnit)
	case "update_food":
		b.adminOnly(ctx, user, rest, replies, b.handleUpdateFood)
	default:
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
	}
}

type adminHandler func(ctx context.Context, user *domain.User, flags parser.Flags, replies Replies) error

// adminOnly rejects non-owners, parses the argument string and funnels
// handler failures into one localized error reply.
func (b *Router) adminOnly(ctx context.Context, user *domain.User, rest string, replies Replies, h adminHandler) {
	if user.TelegramID != b.OwnerID {
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.Unauthorized))
		return
	}
	tokens, err := parser.SplitArgs(rest)
	if err != nil {
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		return
	}
	if err := h(ctx, user, parser.ParseFlags(tokens), replies); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCommand):
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		case errors.Is(err, services.ErrDuplicateName):
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DuplicateName))
		case errors.Is(err, services.ErrRequestNotFound):
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.RequestNotFound))
		case errors.Is(err, services.ErrFoodNotFound), errors.Is(err, services.ErrUnitNotFound):
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		default:
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
			log.Error().Err(err).Msg("admin command failed")
		}
	}
}

func (b *Router) handleToday(ctx context.Context, user *domain.User, replies Replies) {
	logs, err := b.Reports.DayLogs(ctx, user, domain.Today())
	if err != nil {
		log.Error().Err(err).Msg("day logs")
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		return
	}
	if len(logs) == 0 {
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.TodayEmpty))
		return
	}

	var sb strings.Builder
	sb.WriteString(i18n.T(user.Locale, i18n.TodayHeader))
	for _, fl := range logs {
		foodName := repo.FoodDisplayName(ctx, b.DB, fl.FoodID, user.Locale)
		unitName := repo.UnitDisplayName(ctx, b.DB, fl.UnitID, user.Locale)
		qty := formatQty(fl.Qty) + " " + unitName
		sb.WriteString("\n")
		sb.WriteString(i18n.T(user.Locale, i18n.TodayEntry, foodName, qty,
			fl.Calories, fl.Fat, fl.Carbs, fl.Protein))
	}
	replies.Add(user.TelegramID, sb.String())

	rem, err := b.Reports.Remainder(ctx, user, domain.Today())
	if err != nil {
		log.Error().Err(err).Msg("day remainder")
		return
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DayRemainder,
		rem.CaloriesLeft, rem.FatLeft, rem.CarbsLeft, rem.ProteinLeft))
}

func (b *Router) handleSettings(ctx context.Context, user *domain.User, replies Replies) {
	profile, err := repo.GetProfile(ctx, b.DB, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("load profile")
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		return
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.Settings,
		profile.DailyCalories, profile.DailyFat, profile.DailyCarbs, profile.DailyProtein))
}

func (b *Router) handleCancel(ctx context.Context, user *domain.User, text string, replies Replies) {
	cl, err := b.Cancels.Cancel(ctx, user)
	if err != nil {
		if errors.Is(err, services.ErrNothingToCancel) {
			replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.NothingToCancel))
			return
		}
		log.Error().Err(err).Msg("cancel")
		replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.DontUnderstand))
		return
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.Cancelled, cl.Command))
	b.shadowCopy(user, text, replies)
}

// handleAddFood creates a food from per-100g values:
// /add_food "Name" --cal=52 --fat=0.2 --carbs=14 --protein=0.3 [--request=N]
func (b *Router) handleAddFood(ctx context.Context, user *domain.User, flags parser.Flags, replies Replies) error {
	if len(flags.Positional) != 1 {
		return services.ErrInvalidCommand
	}
	name := flags.Positional[0]
	perGram, err := nutrientsPerGram(flags)
	if err != nil {
		return err
	}

	locale, err := b.commandLocale(ctx, user, flags)
	if err != nil {
		return err
	}
	if _, err := b.Catalog.CreateFood(ctx, locale, name, perGram); err != nil {
		return err
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.FoodCreated, name))
	return b.replayIfRequested(ctx, flags, replies)
}

// handleAddUnit creates a unit: /add_unit "name" [--locale=ru] [--request=N]
func (b *Router) handleAddUnit(ctx context.Context, user *domain.User, flags parser.Flags, replies Replies) error {
	if len(flags.Positional) != 1 {
		return services.ErrInvalidCommand
	}
	name := strings.ToLower(flags.Positional[0])
	locale, err := b.commandLocale(ctx, user, flags)
	if err != nil {
		return err
	}
	if _, err := b.Catalog.CreateUnit(ctx, locale, name); err != nil {
		return err
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.UnitCreated, name))
	return b.replayIfRequested(ctx, flags, replies)
}

// handleDefineUnit maps a unit onto a food:
// /define_unit "food" "unit" --grams=350 [--default] [--request=N]
func (b *Router) handleDefineUnit(ctx context.Context, user *domain.User, flags parser.Flags, replies Replies) error {
	if len(flags.Positional) != 2 {
		return services.ErrInvalidCommand
	}
	foodName := flags.Positional[0]
	unitName := strings.ToLower(flags.Positional[1])
	grams, ok := flags.Float("grams")
	if !ok || grams <= 0 {
		return services.ErrInvalidCommand
	}

	locale, err := b.commandLocale(ctx, user, flags)
	if err != nil {
		return err
	}
	if err := b.Catalog.DefineUnit(ctx, locale, foodName, unitName, grams, flags.Bool("default")); err != nil {
		return err
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.UnitDefined, foodName, unitName, grams))
	return b.replayIfRequested(ctx, flags, replies)
}

// handleUpdateFood overwrites per-100g values of an existing food.
func (b *Router) handleUpdateFood(ctx context.Context, user *domain.User, flags parser.Flags, replies Replies) error {
	if len(flags.Positional) != 1 {
		return services.ErrInvalidCommand
	}
	name := flags.Positional[0]
	perGram, err := nutrientsPerGram(flags)
	if err != nil {
		return err
	}
	locale, err := b.commandLocale(ctx, user, flags)
	if err != nil {
		return err
	}
	if err := b.Catalog.UpdateFood(ctx, locale, name, perGram); err != nil {
		return err
	}
	replies.Add(user.TelegramID, i18n.T(user.Locale, i18n.FoodUpdated, name))
	return b.replayIfRequested(ctx, flags, replies)
}

// nutrientsPerGram reads the per-100g options and normalizes them to
// per-gram storage values.
func nutrientsPerGram(flags parser.Flags) (domain.Food, error) {
	cal, okC := flags.Float("cal")
	fat, okF := flags.Float("fat")
	carbs, okB := flags.Float("carbs")
	protein, okP := flags.Float("protein")
	if !okC || !okF || !okB || !okP {
		return domain.Food{}, services.ErrInvalidCommand
	}
	if cal < 0 || fat < 0 || carbs < 0 || protein < 0 {
		return domain.Food{}, services.ErrInvalidCommand
	}
	return domain.Food{
		Calories: cal / 100,
		Fat:      fat / 100,
		Carbs:    carbs / 100,
		Protein:  protein / 100,
	}, nil
}

// commandLocale picks the locale a catalog name is registered under: an
// explicit --locale wins, then the requesting user's locale when the command
// carries --request, then the administrator's own.
func (b *Router) commandLocale(ctx context.Context, user *domain.User, flags parser.Flags) (string, error) {
	if loc, ok := flags.Options["locale"]; ok && loc != "" {
		return loc, nil
	}
	if reqID, ok := flags.Int("request"); ok {
		fr, err := repo.GetFoodRequest(ctx, b.DB, uint(reqID))
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return "", services.ErrRequestNotFound
			}
			return "", fmt.Errorf("load request: %w", err)
		}
		return fr.User.Locale, nil
	}
	return user.Locale, nil
}

// replayIfRequested re-runs the referenced stored request through the entry
// pipeline as its original sender and renders the outcome to both parties.
func (b *Router) replayIfRequested(ctx context.Context, flags parser.Flags, replies Replies) error {
	reqID, ok := flags.Int("request")
	if !ok {
		return nil
	}
	requester, out, err := b.Entries.ReplayRequest(ctx, uint(reqID))
	if err != nil {
		return err
	}
	b.renderOutcome(ctx, requester, out, replies)
	return nil
}
