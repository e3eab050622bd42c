package roles

import (
	"testing"

	"github.com/paysharehq/payshare/internal/models"
)

func payer(groupID string, paid bool) models.RoleRecord {
	status := models.RoleStatusUnpaid
	if paid {
		status = models.RoleStatusPaid
	}
	return models.RoleRecord{GroupID: groupID, Role: models.RolePayer, Status: status}
}

func creator(groupID string) models.RoleRecord {
	return models.RoleRecord{GroupID: groupID, Role: models.RoleCreator, Status: models.RoleStatusCreator}
}

func TestMerge(t *testing.T) {
	t.Run("creator wins over payer for same group", func(t *testing.T) {
		merged := Merge(
			[]models.RoleRecord{payer("g1", false)},
			[]models.RoleRecord{creator("g1")},
		)

		if len(merged) != 1 {
			t.Fatalf("expected 1 record, got %d", len(merged))
		}
		if merged[0].Role != models.RoleCreator {
			t.Errorf("expected creator role, got %s", merged[0].Role)
		}
		if merged[0].Status != models.RoleStatusCreator {
			t.Errorf("expected creator status, got %s", merged[0].Status)
		}
	})

	t.Run("disjoint groups pass through", func(t *testing.T) {
		merged := Merge(
			[]models.RoleRecord{payer("g1", true), payer("g2", false)},
			[]models.RoleRecord{creator("g3")},
		)

		if len(merged) != 3 {
			t.Fatalf("expected 3 records, got %d", len(merged))
		}
		if merged[0].GroupID != "g1" || merged[0].Status != models.RoleStatusPaid {
			t.Errorf("unexpected first record: %+v", merged[0])
		}
		if merged[2].GroupID != "g3" || merged[2].Role != models.RoleCreator {
			t.Errorf("unexpected last record: %+v", merged[2])
		}
	})

	t.Run("promoted group keeps payer position", func(t *testing.T) {
		merged := Merge(
			[]models.RoleRecord{payer("g1", false), payer("g2", true)},
			[]models.RoleRecord{creator("g2")},
		)

		if len(merged) != 2 {
			t.Fatalf("expected 2 records, got %d", len(merged))
		}
		if merged[1].GroupID != "g2" || merged[1].Role != models.RoleCreator {
			t.Errorf("expected g2 promoted in place, got %+v", merged[1])
		}
	})

	t.Run("empty inputs give empty output", func(t *testing.T) {
		if merged := Merge(nil, nil); len(merged) != 0 {
			t.Errorf("expected empty, got %v", merged)
		}
	})
}
