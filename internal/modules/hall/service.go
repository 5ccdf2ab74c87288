package hall

import (
	"context"

	"studyhall/internal/domain"
	"studyhall/internal/layout"
)

type Service struct {
	halls  HallRepository
	cabins CabinRepository
	logf   func(format string, args ...interface{})
}

func NewService(halls HallRepository, cabins CabinRepository, logf func(format string, args ...interface{})) *Service {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Service{halls: halls, cabins: cabins, logf: logf}
}

func (s *Service) CreateHall(ctx context.Context, ownerID int64, req CreateHallRequest) (*domain.Hall, error) {
	h := &domain.Hall{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		BasePrice:   req.BasePrice,
		BaseDeposit: req.BaseDeposit,
		Amenities:   req.Amenities,
		Status:      domain.HallPending,
	}
	if err := s.halls.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) UpdateHall(ctx context.Context, hallID, ownerID int64, req UpdateHallRequest) (*domain.Hall, error) {
	h, err := s.ownedHall(ctx, hallID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Address != nil {
		h.Address = *req.Address
	}
	if req.City != nil {
		h.City = *req.City
	}
	if req.BasePrice != nil {
		h.BasePrice = *req.BasePrice
	}
	if req.BaseDeposit != nil {
		h.BaseDeposit = *req.BaseDeposit
	}
	if req.Amenities != nil {
		h.Amenities = req.Amenities
	}

	if err := s.halls.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) GetHall(ctx context.Context, hallID int64) (*domain.Hall, error) {
	h, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, ErrNotFound
	}
	return h, nil
}

func (s *Service) ListApproved(ctx context.Context, city string, limit, offset int) ([]domain.Hall, error) {
	return s.halls.ListApproved(ctx, city, limit, offset)
}

func (s *Service) ListMine(ctx context.Context, ownerID int64) ([]domain.Hall, error) {
	return s.halls.ListByOwner(ctx, ownerID)
}

// parseRows routes every user-supplied numeric field through the
// typed parse; nothing degenerate reaches the generator.
func parseRows(inputs []RowInput) ([]layout.RowConfig, error) {
	rows := make([]layout.RowConfig, 0, len(inputs))
	for i, in := range inputs {
		count, err := layout.ParseCount(in.CabinCount)
		if err != nil {
			return nil, &RowFieldError{Row: i, Field: "cabin_count", Err: err}
		}
		price, err := layout.ParseOptionalMoney(in.PriceOverride)
		if err != nil {
			return nil, &RowFieldError{Row: i, Field: "price_override", Err: err}
		}
		deposit, err := layout.ParseOptionalMoney(in.DepositOverride)
		if err != nil {
			return nil, &RowFieldError{Row: i, Field: "deposit_override", Err: err}
		}
		rows = append(rows, layout.RowConfig{
			Name:            in.Name,
			CabinCount:      count,
			PriceOverride:   price,
			DepositOverride: deposit,
			Amenities:       in.Amenities,
		})
	}
	return rows, nil
}

// PreviewLayout regenerates the floor plan for the editor without
// touching persistence.
func (s *Service) PreviewLayout(ctx context.Context, hallID, ownerID int64, inputs []RowInput) (*layout.LayoutData, error) {
	h, err := s.ownedHall(ctx, hallID, ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := parseRows(inputs)
	if err != nil {
		return nil, err
	}

	return layout.Generate(rows, h.BasePrice, h.BaseDeposit, nil), nil
}

// SaveLayout persists the row configuration and upserts the generated
// cabins keyed by their stable position ids. Cabin rows that fail to
// save are reported, not rolled back: the hall still comes out usable
// and the caller can retry the failed cabins.
func (s *Service) SaveLayout(ctx context.Context, hallID, ownerID int64, inputs []RowInput) (*LayoutSaveResult, error) {
	h, err := s.ownedHall(ctx, hallID, ownerID)
	if err != nil {
		return nil, err
	}

	rows, err := parseRows(inputs)
	if err != nil {
		return nil, err
	}

	data := layout.Generate(rows, h.BasePrice, h.BaseDeposit, nil)

	hallRows := make([]domain.HallRow, 0, len(rows))
	for _, r := range rows {
		hallRows = append(hallRows, domain.HallRow{
			Name:            r.Name,
			CabinCount:      r.CabinCount,
			PriceOverride:   r.PriceOverride,
			DepositOverride: r.DepositOverride,
		})
	}
	if err := s.halls.ReplaceRows(ctx, hallID, hallRows); err != nil {
		return nil, err
	}

	cabins := make([]domain.Cabin, 0, len(data.Cabins))
	keep := make([]string, 0, len(data.Cabins))
	for _, c := range data.Cabins {
		cabins = append(cabins, domain.Cabin{
			PositionID:        c.ID,
			Name:              c.Name,
			MonthlyPrice:      c.MonthlyPrice,
			RefundableDeposit: c.RefundableDeposit,
			Amenities:         c.Amenities,
			Status:            domain.CabinAvailable,
		})
		keep = append(keep, c.ID)
	}

	saved, failed, err := s.cabins.UpsertByPosition(ctx, hallID, cabins)
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		s.logf("level=warn msg=partial cabin save hall_id=%d saved=%d failed=%d", hallID, saved, len(failed))
	}

	if err := s.cabins.DeleteStale(ctx, hallID, keep); err != nil {
		s.logf("level=error msg=stale cabin cleanup failed hall_id=%d err=%v", hallID, err)
	}

	return &LayoutSaveResult{Layout: data, SavedCabins: saved, FailedCabins: failed}, nil
}

// GetLayout regenerates the floor plan from the persisted rows and
// overlays manually-set cabin statuses (maintenance). Occupancy is
// not applied here; that is the availability reconciler's job.
func (s *Service) GetLayout(ctx context.Context, hallID int64) (*layout.LayoutData, error) {
	h, err := s.halls.GetWithRows(ctx, hallID)
	if err != nil {
		return nil, ErrNotFound
	}

	rows := make([]layout.RowConfig, 0, len(h.Rows))
	for _, r := range h.Rows {
		rows = append(rows, layout.RowConfig{
			Name:            r.Name,
			CabinCount:      r.CabinCount,
			PriceOverride:   r.PriceOverride,
			DepositOverride: r.DepositOverride,
		})
	}

	overrides := make(map[string]domain.CabinStatus)
	persisted, err := s.cabins.ListByHall(ctx, hallID)
	if err != nil {
		// Stale statuses beat a hard failure; the grid still renders.
		s.logf("level=error msg=cabin status fetch failed hall_id=%d err=%v", hallID, err)
	} else {
		for _, c := range persisted {
			if c.Status == domain.CabinMaintenance {
				overrides[c.PositionID] = c.Status
			}
		}
	}

	return layout.Generate(rows, h.BasePrice, h.BaseDeposit, overrides), nil
}

// SetCabinStatus toggles a cabin between available and maintenance.
// Occupied is derived from bookings and cannot be set by hand.
func (s *Service) SetCabinStatus(ctx context.Context, hallID, ownerID int64, positionID string, status domain.CabinStatus) error {
	if status != domain.CabinAvailable && status != domain.CabinMaintenance {
		return ErrBadStatus
	}
	if _, err := s.ownedHall(ctx, hallID, ownerID); err != nil {
		return err
	}
	return s.cabins.UpdateStatus(ctx, hallID, positionID, status)
}

func (s *Service) ownedHall(ctx context.Context, hallID, ownerID int64) (*domain.Hall, error) {
	h, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		return nil, ErrNotFound
	}
	if h.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return h, nil
}
