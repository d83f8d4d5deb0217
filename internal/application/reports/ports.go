package reports

import (
	"context"
	"time"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
)

// SummaryCache guarda el resumen por tenant. Lo implementa cache.RedisSummaryCache.
type SummaryCache interface {
	// Get devuelve ok=false si no hay entrada vigente.
	Get(ctx context.Context, tenantID string) (summary *dto.ReportSummaryDTO, ok bool, err error)
	Set(ctx context.Context, tenantID string, summary *dto.ReportSummaryDTO, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID string) error
}

// PDFRenderer genera el PDF del resumen. Lo implementa pdf.MarotoPDFGenerator.
type PDFRenderer interface {
	RenderSummary(ctx context.Context, summary *dto.ReportSummaryDTO) ([]byte, error)
}
