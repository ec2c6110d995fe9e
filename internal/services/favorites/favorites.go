// Package favorites implements the per-account vehicle wishlist.
package favorites

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"dealership/internal/flash"
	"dealership/internal/models"

	"go.uber.org/zap"
)

const (
	ListPath  = "/favorites/account/favorites"
	LoginPath = "/account/login"
)

const (
	MsgLoginToAdd  = "Please log in to add a favorite car to your wishlist."
	MsgInvalidID   = "Invalid vehicle ID."
	MsgAlready     = "This vehicle is already in your favorites."
	MsgAdded       = "Vehicle added to your favorites."
	MsgAddFailed   = "Something went wrong while adding this vehicle to your favorites."
	MsgRemoved     = "Vehicle removed from your favorites."
	MsgSelectOne   = "Please select at least one vehicle to remove."
	MsgEnterName   = "Please enter your name in the name input."
	MsgBulkFailed  = "Upps, an error happened when we tried to delete your favorite cars."
	MsgBulkRemoved = "Vehicle deleted succesfully."
)

type Store interface {
	Add(ctx context.Context, accountID, invID int) (bool, error)
	Remove(ctx context.Context, accountID, invID int) (bool, error)
	Exists(ctx context.Context, accountID, invID int) (bool, error)
	List(ctx context.Context, accountID int) ([]models.FavoriteVehicle, error)
}

// Outcome tells the transport where to send the browser and what to show there.
type Outcome struct {
	Redirect string
	Messages []flash.Message
}

func redirect(to string, msgs ...flash.Message) Outcome {
	return Outcome{Redirect: to, Messages: msgs}
}

type Service struct {
	store Store
	lg    *zap.SugaredLogger
}

func NewService(st Store, lg *zap.SugaredLogger) *Service {
	return &Service{store: st, lg: lg}
}

func parseID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	return id, err == nil && id > 0
}

func detailPath(raw string) string { return "/inv/detail/" + raw }

// Add puts a vehicle on the account's list. The profile is nil for
// anonymous visitors.
func (s *Service) Add(ctx context.Context, p *models.Profile, rawInvID string) Outcome {
	if p == nil {
		return redirect(LoginPath, flash.NewNotice(MsgLoginToAdd))
	}
	invID, ok := parseID(rawInvID)
	if !ok {
		return redirect("/", flash.NewNotice(MsgInvalidID))
	}
	back := detailPath(strconv.Itoa(invID))

	exists, err := s.store.Exists(ctx, p.ID, invID)
	if err != nil {
		s.lg.Errorw("favorite lookup failed", "account_id", p.ID, "inv_id", invID, "error", err)
		return redirect(back, flash.NewNotice(MsgAddFailed))
	}
	if exists {
		return redirect(back, flash.NewNotice(MsgAlready))
	}
	inserted, err := s.store.Add(ctx, p.ID, invID)
	if err != nil {
		s.lg.Errorw("adding favorite failed", "account_id", p.ID, "inv_id", invID, "error", err)
		return redirect(back, flash.NewNotice(MsgAddFailed))
	}
	if !inserted {
		return redirect(back, flash.NewNotice(MsgAlready))
	}
	return redirect(back, flash.NewSuccess(MsgAdded))
}

// Remove drops one vehicle from the list. Removing a vehicle that is not on
// the list succeeds.
func (s *Service) Remove(ctx context.Context, p models.Profile, rawInvID string) (Outcome, error) {
	invID, ok := parseID(rawInvID)
	if !ok {
		return redirect(ListPath, flash.NewNotice(MsgInvalidID)), nil
	}
	if _, err := s.store.Remove(ctx, p.ID, invID); err != nil {
		return Outcome{}, fmt.Errorf("remove favorite: %w", err)
	}
	return redirect(ListPath, flash.NewSuccess(MsgRemoved)), nil
}

// RemoveSelected validates the whole request before touching storage: with
// any validation message queued nothing is deleted. Deletions then run one
// at a time and stop at the first failure, keeping the rows already removed.
func (s *Service) RemoveSelected(ctx context.Context, p models.Profile, selected []string, clientName string) Outcome {
	selected = slices.DeleteFunc(slices.Clone(selected), func(s string) bool { return strings.TrimSpace(s) == "" })
	var problems []flash.Message
	if len(selected) == 0 {
		problems = append(problems, flash.NewNotice(MsgSelectOne))
	}
	if strings.TrimSpace(clientName) == "" {
		problems = append(problems, flash.NewNotice(MsgEnterName))
	}
	if len(problems) > 0 {
		return redirect(ListPath, problems...)
	}

	ids := make([]int, 0, len(selected))
	for _, raw := range selected {
		id, ok := parseID(raw)
		if !ok {
			s.lg.Warnw("bulk favorite removal with bad id", "account_id", p.ID, "value", raw)
			return redirect(ListPath, flash.NewNotice(MsgBulkFailed))
		}
		ids = append(ids, id)
	}
	for i, id := range ids {
		if _, err := s.store.Remove(ctx, p.ID, id); err != nil {
			s.lg.Errorw("bulk favorite removal failed", "account_id", p.ID, "inv_id", id, "removed", i, "error", err)
			return redirect(ListPath, flash.NewNotice(MsgBulkFailed))
		}
	}
	return redirect(ListPath, flash.NewSuccess(MsgBulkRemoved))
}

func (s *Service) List(ctx context.Context, p models.Profile) ([]models.FavoriteVehicle, error) {
	favs, err := s.store.List(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}
