package mapping

import (
	"github.com/finvolt/posting_engine/internal/core/domain"
	"github.com/finvolt/posting_engine/internal/models"
)

// ToModelFiscalPeriod converts a domain fiscal period.
func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		Year:        d.Year,
		Period:      d.Period,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalPeriod converts a model fiscal period.
func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		Year:        m.Year,
		Period:      m.Period,
		Status:      domain.PeriodStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPeriodAuditEvent converts a domain period audit event.
func ToModelPeriodAuditEvent(d domain.PeriodAuditEvent) models.PeriodAuditEvent {
	return models.PeriodAuditEvent(d)
}

// ToDomainPeriodAuditEvent converts a model period audit event.
func ToDomainPeriodAuditEvent(m models.PeriodAuditEvent) domain.PeriodAuditEvent {
	return domain.PeriodAuditEvent(m)
}
