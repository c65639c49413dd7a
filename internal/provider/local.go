package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/engine"
)

// LocalProvider builds the four-pillar payload in process, aggregating the
// fundamentals and filings feeds and running the analysis engine over them.
// No server involved; this is standalone mode.
type LocalProvider struct {
	fmp *FMPClient
	sec *SECClient
	log *logrus.Logger
}

// NewLocalProvider wires the standalone aggregation pipeline.
func NewLocalProvider(fmp *FMPClient, sec *SECClient, log *logrus.Logger) *LocalProvider {
	return &LocalProvider{fmp: fmp, sec: sec, log: log}
}

func (p *LocalProvider) Analyze(ctx context.Context, ticker string) (*analysis.Payload, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker symbol is required")
	}

	financials, err := p.fmp.FinancialData(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("financial data for %s: %w", ticker, err)
	}

	// the remaining feeds degrade gracefully: a missing feed empties its
	// pillar section instead of failing the whole analysis
	metrics, err := p.fmp.KeyMetrics(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("key metrics unavailable")
	}
	profile, err := p.fmp.ProfileAndQuote(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("profile/quote unavailable")
	}
	news, err := p.fmp.News(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("news unavailable")
	}
	filings, err := p.sec.LatestFilings(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("filings unavailable")
	}

	cashFlow := engine.ReclassifiedCashFlow(
		financials.IncomeStatements,
		financials.BalanceSheets,
		financials.CashFlowStatements,
	)
	sentiment := engine.AnalyzeSentiment(news)
	valuation := engine.Valuation(cashFlow, profile.EnterpriseValue, financials.IncomeStatements)
	guideposts := engine.FindCatalysts(filings)

	companyName := "N/A"
	if name, ok := profile.Profile["companyName"].(string); ok && name != "" {
		companyName = name
	}

	return &analysis.Payload{
		Ticker:      ticker,
		CompanyName: companyName,
		Pillars: analysis.PillarPayloads{
			BusinessQuality: analysis.BusinessQuality{
				ReclassifiedCashFlow: cashFlow,
				KeyMetrics:           metrics,
				CompanyProfile:       profile.Profile,
				SECFilings: map[string]string{
					"10-K": firstFilingLink(filings, "10-K"),
					"10-Q": firstFilingLink(filings, "10-Q"),
				},
			},
			Contrarian: analysis.Contrarian{
				MarketData:      profile.Quote,
				NewsSentiment:   sentiment,
				MungerChecklist: engine.MungerChecklist(),
			},
			Valuation: analysis.ValuationPillar{
				Valuation:  valuation,
				KeyMetrics: metrics,
				MarketData: profile.Quote,
			},
			Catalysts: analysis.Catalysts{Guideposts: guideposts},
		},
		MarketData: profile.Quote,
	}, nil
}

func firstFilingLink(filings map[string][]engine.Filing, form string) string {
	if fs := filings[form]; len(fs) > 0 && fs[0].LinkToFilingDetails != "" {
		return fs[0].LinkToFilingDetails
	}
	return "#"
}
