package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"sms-portal/internal/models"

	"go.uber.org/zap"
)

const (
	societyStatsKey = "stats:societies"
	renewalStatsKey = "stats:renewals"
)

type SocietyStatistics struct {
	TotalSocieties           int64 `json:"totalSocieties"`
	ActiveSocieties          int64 `json:"activeSocieties"`
	CurrentYearRegistrations int64 `json:"currentYearRegistrations"`
}

// ListSocieties pages through societies, newest year first. Unknown status
// values have already been dropped by the caller.
func (s *Service) ListSocieties(ctx context.Context, f SocietyFilter, page models.PageRequest) (models.Page[models.Society], error) {
	page = page.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	rows, total, err := s.repo.ListSocieties(ctx, f, page)
	if err != nil {
		return models.Page[models.Society]{}, err
	}
	return models.NewPage(rows, page, total), nil
}

func (s *Service) GetSociety(ctx context.Context, id uint) (*models.Society, error) {
	soc, err := s.repo.GetSociety(ctx, id)
	return soc, orNotFound(err, "Society %d not found", id)
}

func (s *Service) ActiveSocieties(ctx context.Context) ([]models.Society, error) {
	return s.repo.ActiveSocieties(ctx)
}

func (s *Service) SocietyStatistics(ctx context.Context) (SocietyStatistics, error) {
	var stats SocietyStatistics
	if err := s.cache.GetJSON(ctx, societyStatsKey, &stats); err == nil {
		return stats, nil
	}

	var err error
	if stats.TotalSocieties, err = s.repo.CountSocieties(ctx, SocietyFilter{}); err != nil {
		return stats, err
	}
	if stats.ActiveSocieties, err = s.repo.CountSocieties(ctx, SocietyFilter{Status: models.SocietyActive}); err != nil {
		return stats, err
	}
	if _, stats.CurrentYearRegistrations, err = s.repo.ListRegistrations(ctx, ApplicationFilter{Year: s.currentYear()}, models.PageRequest{Size: 1}); err != nil {
		return stats, err
	}

	if err := s.cache.SetJSON(ctx, societyStatsKey, stats, s.opts.StatsTTL); err != nil {
		logger.Warn("Failed to cache society statistics", zap.Error(err))
	}
	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, societyStatsKey, renewalStatsKey); err != nil {
		logger.Warn("Failed to invalidate cached statistics", zap.Error(err))
	}
}

// LatestSocietyData returns the most recently approved details of a society:
// whichever of its latest approved renewal or registration was approved
// last, falling back to the newest society row.
func (s *Service) LatestSocietyData(ctx context.Context, name string) (*models.Society, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Society name is required.")
	}
	return latestSocietyData(ctx, s.repo, name)
}

func latestSocietyData(ctx context.Context, repo Repository, name string) (*models.Society, error) {
	reg, err := repo.LatestApprovedRegistration(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	ren, err := repo.LatestApprovedRenewal(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	var data *models.Society
	switch {
	case ren != nil && (reg == nil || approvedAfter(ren.ApprovedDate, reg.ApprovedDate)):
		soc := societyFromRenewal(ren)
		data = &soc
	case reg != nil:
		soc := societyFromRegistration(reg)
		data = &soc
	}
	if data != nil {
		// The society row for that year carries office bearers kept over
		// from earlier years and the current status.
		if row, err := repo.FindSociety(ctx, data.SocietyName, data.Year); err == nil {
			data.ID = row.ID
			data.Status = row.Status
			data.Officials = mergeOfficials(row.Officials, data.Officials)
		}
		return data, nil
	}

	soc, err := repo.LatestSociety(ctx, name)
	if err != nil {
		return nil, orNotFound(err, "No data found for society %q", name)
	}
	return soc, nil
}

// ExportSocieties renders every society matching f as CSV.
func (s *Service) ExportSocieties(ctx context.Context, f SocietyFilter) ([]byte, error) {
	rows, _, err := s.repo.ListSocieties(ctx, f, models.PageRequest{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"id", "society_name", "year", "faculty", "status", "registered_date",
		"president", "president_email", "secretary", "secretary_email",
		"senior_treasurer", "senior_treasurer_email", "website",
	})
	for _, soc := range rows {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(soc.ID), 10),
			soc.SocietyName,
			strconv.Itoa(soc.Year),
			soc.Faculty,
			string(soc.Status),
			soc.RegisteredDate.String(),
			soc.President.Name,
			soc.President.Email,
			soc.Secretary.Name,
			soc.Secretary.Email,
			soc.SeniorTreasurer.FullName,
			soc.SeniorTreasurer.Email,
			soc.Website,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeactivateLapsed marks active societies from earlier years as inactive.
func (s *Service) DeactivateLapsed(ctx context.Context) (int64, error) {
	year := s.currentYear()
	n, err := s.repo.DeactivateSocieties(ctx, year)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidateStats(ctx)
		if err := s.logActivity(ctx, s.repo, "system", "SYSTEM", "DEACTIVATE_LAPSED", strconv.FormatInt(n, 10)+" societies"); err != nil {
			logger.Warn("Failed to record lapse run", zap.Error(err))
		}
	}
	logger.Info("Deactivated lapsed societies", zap.Int64("count", n), zap.Int("beforeYear", year))
	return n, nil
}
