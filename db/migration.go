package db

import (
	dbmodels "nr1-risk-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("executando migrações")
	for _, item := range []struct {
		name  string
		model interface{}
	}{
		{"Organization", &dbmodels.Organization{}},
		{"OrganizationUser", &dbmodels.OrganizationUser{}},
		{"Department", &dbmodels.Department{}},
		{"DepartmentMember", &dbmodels.DepartmentMember{}},
		{"Assessment", &dbmodels.Assessment{}},
		{"Question", &dbmodels.Question{}},
		{"Response", &dbmodels.Response{}},
	} {
		if err := DB.AutoMigrate(item.model); err != nil {
			return errors.Wrapf(err, "erro ao criar a estrutura %s", item.name)
		}
	}
	log.Info("migrações concluídas")
	return nil
}
