package portfolio_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/stash/internal/asset"
	"github.com/MrJamesThe3rd/stash/internal/portfolio"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValuationFor(t *testing.T) {
	assert.Equal(t, portfolio.ValuationGold, portfolio.ValuationFor(asset.TypeGold))
	assert.Equal(t, portfolio.ValuationStandard, portfolio.ValuationFor(asset.TypeStock))
	assert.Equal(t, portfolio.ValuationStandard, portfolio.ValuationFor(asset.TypeOther))
}

func TestLatest(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	older := &portfolio.Snapshot{ID: uuid.New(), Date: day(2024, 1, 1), CreatedAt: created}
	sameDayEarly := &portfolio.Snapshot{ID: uuid.New(), Date: day(2024, 2, 1), CreatedAt: created}
	sameDayLate := &portfolio.Snapshot{ID: uuid.New(), Date: day(2024, 2, 1), CreatedAt: created.Add(time.Hour)}

	tests := []struct {
		name  string
		snaps []*portfolio.Snapshot
		want  *portfolio.Snapshot
	}{
		{name: "empty", snaps: nil, want: nil},
		{name: "later day wins", snaps: []*portfolio.Snapshot{sameDayEarly, older}, want: sameDayEarly},
		{name: "later creation wins on same day", snaps: []*portfolio.Snapshot{sameDayLate, older, sameDayEarly}, want: sameDayLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, portfolio.Latest(tt.snaps))
		})
	}
}

func TestLatest_TieKeepsLastInserted(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	first := &portfolio.Snapshot{ID: uuid.New(), Date: day(2024, 2, 1), CreatedAt: created}
	second := &portfolio.Snapshot{ID: uuid.New(), Date: day(2024, 2, 1), CreatedAt: created}

	assert.Same(t, second, portfolio.Latest([]*portfolio.Snapshot{first, second}))
}

func TestService_Create(t *testing.T) {
	assetID := uuid.New()

	type args struct {
		params portfolio.CreateParams
	}

	type testCase struct {
		name         string
		args         args
		setupMock    func(m *portfolio.MockRepository)
		wantCurrency string
		wantErr      bool
	}

	tests := []testCase{
		{
			name: "DefaultsCurrency",
			args: args{params: portfolio.CreateParams{Name: " Stocks ", AssetID: assetID}},
			setupMock: func(m *portfolio.MockRepository) {
				m.EXPECT().CreatePortfolio(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *portfolio.Portfolio) error {
						p.ID = uuid.New()
						return nil
					})
			},
			wantCurrency: "VND",
		},
		{
			name: "KeepsCurrency",
			args: args{params: portfolio.CreateParams{Name: "US", AssetID: assetID, Currency: "usd"}},
			setupMock: func(m *portfolio.MockRepository) {
				m.EXPECT().CreatePortfolio(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCurrency: "USD",
		},
		{
			name:    "MissingName",
			args:    args{params: portfolio.CreateParams{Name: "  ", AssetID: assetID}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := portfolio.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := portfolio.NewService(repo).Create(context.Background(), tt.args.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrency, got.Currency)
		})
	}
}

func TestService_RecordSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := portfolio.NewMockRepository(ctrl)
	svc := portfolio.NewService(repo)

	id := uuid.New()

	repo.EXPECT().GetPortfolio(gomock.Any(), id).Return(&portfolio.Portfolio{ID: id}, nil)
	repo.EXPECT().CreateSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	snap, err := svc.RecordSnapshot(context.Background(), id, portfolio.SnapshotParams{
		Date:             day(2024, 5, 1),
		NAV:              decimal.NewFromInt(10_000_000),
		BrandedGoldPrice: decimal.NewNullDecimal(decimal.NewFromInt(8_000_000)),
	})
	require.NoError(t, err)
	assert.Equal(t, id, snap.PortfolioID)
	assert.True(t, snap.HasGoldPrices())
}

func TestService_RecordSnapshot_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := portfolio.NewMockRepository(ctrl)
	svc := portfolio.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetPortfolio(gomock.Any(), id).Return(nil, portfolio.ErrNotFound)

	_, err := svc.RecordSnapshot(context.Background(), id, portfolio.SnapshotParams{
		Date: day(2024, 5, 1),
		NAV:  decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, portfolio.ErrNotFound)
}

func TestService_RecordSnapshot_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := portfolio.NewService(portfolio.NewMockRepository(ctrl))

	_, err := svc.RecordSnapshot(context.Background(), uuid.New(), portfolio.SnapshotParams{NAV: decimal.NewFromInt(1)})
	assert.Error(t, err)

	_, err = svc.RecordSnapshot(context.Background(), uuid.New(), portfolio.SnapshotParams{
		Date: day(2024, 5, 1),
		NAV:  decimal.NewFromInt(-1),
	})
	assert.Error(t, err)

	_, err = svc.RecordSnapshot(context.Background(), uuid.New(), portfolio.SnapshotParams{
		Date:             day(2024, 5, 1),
		PrivateGoldPrice: decimal.NewNullDecimal(decimal.NewFromInt(-5)),
	})
	assert.Error(t, err)
}
