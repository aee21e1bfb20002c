package domain_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/doorline/leadcapture-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Form text is unbounded after sanitising, so every string column of the
// lead sections must be unbounded too.
func TestLeadSectionColumnsAreText(t *testing.T) {
	models := []any{
		&domain.CustomerContactDetail{},
		&domain.ProjectInformation{},
		&domain.StakeholderDetail{},
		&domain.DoorSpecification{},
		&domain.PaymentDetail{},
	}
	cache := &sync.Map{}
	for _, m := range models {
		s, err := schema.Parse(m, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		for _, f := range s.Fields {
			typ := f.FieldType
			if typ.Kind() == reflect.Ptr {
				typ = typ.Elem()
			}
			if typ.Kind() != reflect.String {
				continue
			}
			assert.Equal(t, "text", f.TagSettings["TYPE"], "%s.%s", s.Table, f.DBName)
		}
	}
}
