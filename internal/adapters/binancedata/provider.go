package binancedata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/ports"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
)

// Spot klines endpoint returns at most 1000 candles per request.
const maxKlinesPerRequest = 1000

// Provider implements ports.BarProvider on top of the Binance spot
// klines API, aggregating one daily bar per candle.
type Provider struct {
	client *binance.Client
	logger ports.Logger
}

// Config holds configuration specific to the Binance data provider.
type Config struct {
	APIKey    string
	SecretKey string
	Logger    ports.Logger
}

// New creates a new Binance data provider. Keys may be empty: klines are
// a public endpoint.
func New(cfg Config) (*Provider, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance data provider")
	}
	return &Provider{
		client: binance.NewClient(cfg.APIKey, cfg.SecretKey),
		logger: cfg.Logger,
	}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (p *Provider) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106, -1120, -1121: // Parameter/request format errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrProviderUnavailable
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		p.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else if errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "no such host") {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrProviderUnavailable, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrUnknown, err)
	}

	p.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// GetDailyBars fetches all daily candles for a symbol between start and
// end (inclusive), paging through the API until the range is covered.
func (p *Provider) GetDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]*domain.PriceBar, error) {
	op := "GetDailyBars"
	var bars []*domain.PriceBar
	from := start

	for {
		klines, err := p.client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(from.UnixMilli()).
			EndTime(end.UnixMilli()).
			Limit(maxKlinesPerRequest).
			Do(ctx)
		if err != nil {
			return nil, p.handleError(ctx, err, op)
		}
		if len(klines) == 0 {
			break
		}
		for _, k := range klines {
			bar, err := translateKline(k)
			if err != nil {
				return nil, p.handleError(ctx, fmt.Errorf("%w: %v", ports.ErrMalformedData, err), op)
			}
			bars = append(bars, bar)
		}
		last := klines[len(klines)-1]
		from = time.UnixMilli(last.CloseTime)
		if from.After(end) || len(klines) < maxKlinesPerRequest {
			break
		}
	}

	p.logger.Debug(ctx, op+" completed", map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	})
	return bars, nil
}

func translateKline(k *binance.Kline) (*domain.PriceBar, error) {
	if k == nil {
		return nil, errors.New("received nil kline")
	}
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing open price '%s': %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing high price '%s': %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing low price '%s': %w", k.Low, err)
	}
	cls, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing close price '%s': %w", k.Close, err)
	}
	vol, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing volume '%s': %w", k.Volume, err)
	}

	return &domain.PriceBar{
		Date:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: int64(vol),
	}, nil
}
