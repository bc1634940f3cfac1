package services

import (
	"time"

	"vaccitrack-backend/models"

	"gorm.io/gorm"
)

// Report DTOs. Aggregates only; staff-facing.

type ScheduleReport struct {
	TotalSchedules int64            `json:"totalSchedules"`
	ByStatus       map[string]int64 `json:"byStatus"`
	CompletionRate float64          `json:"completionRate"`
}

type VaccineUsage struct {
	Name      string  `json:"name"`
	Scheduled int64   `json:"scheduled"`
	Completed int64   `json:"completed"`
	Revenue   float64 `json:"revenue"`
}

type VaccineReport struct {
	Vaccines []VaccineUsage `json:"vaccines"`
}

type RevenueReport struct {
	TotalRevenue   float64            `json:"totalRevenue"`
	PaymentCount   int64              `json:"paymentCount"`
	RefundedAmount float64            `json:"refundedAmount"`
	ByMethod       map[string]float64 `json:"byMethod"`
}

type CustomerSummary struct {
	FullName string  `json:"fullName"`
	Orders   int64   `json:"orders"`
	Spent    float64 `json:"spent"`
}

type CustomerReport struct {
	TotalCustomers int64             `json:"totalCustomers"`
	TotalChildren  int64             `json:"totalChildren"`
	TopCustomers   []CustomerSummary `json:"topCustomers"`
}

type ReactionReport struct {
	TotalReactions   int64            `json:"totalReactions"`
	BySeverity       map[string]int64 `json:"bySeverity"`
	UnresolvedSevere int64            `json:"unresolvedSevere"`
}

type ComprehensiveReport struct {
	Schedules ScheduleReport `json:"schedules"`
	Vaccines  VaccineReport  `json:"vaccines"`
	Revenue   RevenueReport  `json:"revenue"`
	Customers CustomerReport `json:"customers"`
	Reactions ReactionReport `json:"reactions"`
}

// ReportService produces the staff-facing aggregates. Every entry point
// requires a staff identity; there is no customer-scoped reporting.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

func (s *ReportService) ScheduleReport(actor models.Identity, start, end time.Time) (*ScheduleReport, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can access reports")
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := s.db.Model(&models.Schedule{}).
		Select("status, COUNT(*) as count").
		Where("schedule_date BETWEEN ? AND ?", start, end).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, ErrInternal("Database error")
	}

	report := &ScheduleReport{ByStatus: make(map[string]int64)}
	for _, row := range rows {
		report.ByStatus[row.Status] = row.Count
		report.TotalSchedules += row.Count
	}
	if report.TotalSchedules > 0 {
		report.CompletionRate = float64(report.ByStatus[string(models.ScheduleCompleted)]) /
			float64(report.TotalSchedules) * 100
	}
	return report, nil
}

func (s *ReportService) VaccineReport(actor models.Identity) (*VaccineReport, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can access reports")
	}

	var usages []VaccineUsage
	if err := s.db.Table("schedules").
		Select(`vaccines.name,
			COUNT(schedules.id) as scheduled,
			SUM(CASE WHEN schedules.status = ? THEN 1 ELSE 0 END) as completed,
			SUM(CASE WHEN schedules.status = ? THEN vaccines.price ELSE 0 END) as revenue`,
			models.ScheduleCompleted, models.ScheduleCompleted).
		Joins("JOIN vaccines ON vaccines.id = schedules.vaccine_id").
		Where("schedules.deleted_at IS NULL AND vaccines.deleted_at IS NULL").
		Group("vaccines.name").
		Order("completed DESC").
		Scan(&usages).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return &VaccineReport{Vaccines: usages}, nil
}

func (s *ReportService) RevenueReport(actor models.Identity, start, end time.Time) (*RevenueReport, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can access reports")
	}

	report := &RevenueReport{ByMethod: make(map[string]float64)}

	if err := s.db.Model(&models.Payment{}).
		Where("status = ? AND payment_date BETWEEN ? AND ?", models.PaymentCompleted, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&report.TotalRevenue).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if err := s.db.Model(&models.Payment{}).
		Where("status = ? AND payment_date BETWEEN ? AND ?", models.PaymentCompleted, start, end).
		Count(&report.PaymentCount).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if err := s.db.Model(&models.Payment{}).
		Where("status = ? AND payment_date BETWEEN ? AND ?", models.PaymentRefunded, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&report.RefundedAmount).Error; err != nil {
		return nil, ErrInternal("Database error")
	}

	type methodRow struct {
		PaymentMethod string
		Total         float64
	}
	var rows []methodRow
	if err := s.db.Model(&models.Payment{}).
		Select("payment_method, COALESCE(SUM(amount), 0) as total").
		Where("status = ? AND payment_date BETWEEN ? AND ?", models.PaymentCompleted, start, end).
		Group("payment_method").
		Scan(&rows).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	for _, row := range rows {
		report.ByMethod[row.PaymentMethod] = row.Total
	}
	return report, nil
}

func (s *ReportService) CustomerReport(actor models.Identity, limit int) (*CustomerReport, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can access reports")
	}
	if limit <= 0 {
		limit = 5
	}

	report := &CustomerReport{}
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleCustomer).
		Count(&report.TotalCustomers).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	if err := s.db.Model(&models.Child{}).Count(&report.TotalChildren).Error; err != nil {
		return nil, ErrInternal("Database error")
	}

	if err := s.db.Table("orders").
		Select("users.full_name, COUNT(orders.id) as orders, COALESCE(SUM(orders.final_amount), 0) as spent").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.paid = ? AND orders.deleted_at IS NULL AND users.deleted_at IS NULL", true).
		Group("users.full_name").
		Order("spent DESC").
		Limit(limit).
		Scan(&report.TopCustomers).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return report, nil
}

func (s *ReportService) ReactionReport(actor models.Identity) (*ReactionReport, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden("Only staff can access reports")
	}

	type severityCount struct {
		Severity int
		Count    int64
	}
	var rows []severityCount
	if err := s.db.Model(&models.Reaction{}).
		Select("severity, COUNT(*) as count").
		Group("severity").
		Scan(&rows).Error; err != nil {
		return nil, ErrInternal("Database error")
	}

	report := &ReactionReport{BySeverity: make(map[string]int64)}
	severityNames := map[int]string{1: "minimal", 2: "mild", 3: "moderate", 4: "severe", 5: "critical"}
	for _, row := range rows {
		name := severityNames[row.Severity]
		if name == "" {
			continue
		}
		report.BySeverity[name] = row.Count
		report.TotalReactions += row.Count
	}

	if err := s.db.Model(&models.Reaction{}).
		Where("resolved = ? AND severity >= ?", false, models.SevereReactionThreshold).
		Count(&report.UnresolvedSevere).Error; err != nil {
		return nil, ErrInternal("Database error")
	}
	return report, nil
}

func (s *ReportService) ComprehensiveReport(actor models.Identity, start, end time.Time) (*ComprehensiveReport, error) {
	schedules, err := s.ScheduleReport(actor, start, end)
	if err != nil {
		return nil, err
	}
	vaccines, err := s.VaccineReport(actor)
	if err != nil {
		return nil, err
	}
	revenue, err := s.RevenueReport(actor, start, end)
	if err != nil {
		return nil, err
	}
	customers, err := s.CustomerReport(actor, 5)
	if err != nil {
		return nil, err
	}
	reactions, err := s.ReactionReport(actor)
	if err != nil {
		return nil, err
	}

	return &ComprehensiveReport{
		Schedules: *schedules,
		Vaccines:  *vaccines,
		Revenue:   *revenue,
		Customers: *customers,
		Reactions: *reactions,
	}, nil
}
