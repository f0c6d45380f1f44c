package repositories

import (
	"context"
	"testing"

	"towerdb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds SQL without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		postgres.New(postgres.Config{DSN: "host=localhost user=towers dbname=towerdb sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true},
	)
	require.NoError(t, err)
	return db
}

func TestApplyTowerFilter(t *testing.T) {
	bells := 8
	report := true

	tests := []struct {
		name     string
		filter   TowerFilter
		contains []string
		vars     int
	}{
		{
			name:   "no filter",
			filter: TowerFilter{},
			vars:   0,
		},
		{
			name:     "district and bells",
			filter:   TowerFilter{District: models.DistrictEly, Bells: &bells},
			contains: []string{"district = $1", "bells = $2"},
			vars:     2,
		},
		{
			name: "choice filters",
			filter: TowerFilter{
				Ringing:  models.RingingRegular,
				RingType: models.RingTypeFullCircle,
				Day:      models.Tuesday,
				Report:   &report,
			},
			contains: []string{"ringing = $1", "ring_type = $2", "day = $3", "report = $4"},
			vars:     4,
		},
		{
			name:     "search",
			filter:   TowerFilter{Query: " mary "},
			contains: []string{"place ILIKE $1 OR dedication ILIKE $2"},
			vars:     2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var towers []*models.Tower
			stmt := applyTowerFilter(dryRunDB(t).Model(&models.Tower{}), tt.filter).
				Find(&towers).Statement

			sql := stmt.SQL.String()
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			assert.Len(t, stmt.Vars, tt.vars)
		})
	}
}

func TestApplyTowerFilter_SearchPattern(t *testing.T) {
	var towers []*models.Tower
	stmt := applyTowerFilter(dryRunDB(t).Model(&models.Tower{}), TowerFilter{Query: " mary "}).
		Find(&towers).Statement

	assert.Equal(t, []any{"%mary%", "%mary%"}, stmt.Vars)
}

func TestTowerFilter_CacheKey(t *testing.T) {
	bells := 6

	assert.Equal(t,
		TowerFilter{Query: "Ely"}.cacheKey(),
		TowerFilter{Query: " ely "}.cacheKey(),
	)
	assert.NotEqual(t,
		TowerFilter{District: models.DistrictEly}.cacheKey(),
		TowerFilter{District: models.DistrictEly, Bells: &bells}.cacheKey(),
	)
}

func TestTowerRepository_ClearCacheWithoutClient(t *testing.T) {
	repo := NewTowerRepository(nil)
	id := 3

	assert.NoError(t, repo.ClearCache(context.Background(), &id))
	assert.NoError(t, repo.ClearCache(context.Background(), nil))
}
