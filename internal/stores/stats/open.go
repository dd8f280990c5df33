package stats

import (
	"fmt"
	"log"

	"github.com/ethanbaker/refbot/pkg/stats"
	"github.com/ethanbaker/refbot/pkg/utils"
	"github.com/go-sql-driver/mysql"
)

// DSN returns the MySQL DSN for the counter store. STATS_DSN wins; otherwise one is built
// from the MYSQL_* keys when MYSQL_HOST is set. An empty result means no database
func DSN(cfg *utils.Config) string {
	if dsn := cfg.Get("STATS_DSN"); dsn != "" {
		return dsn
	}

	if cfg.Get("MYSQL_HOST") == "" {
		return ""
	}

	// Create MySQL config
	dbConfig := mysql.Config{
		User:      cfg.Get("MYSQL_USERNAME"),
		Passwd:    cfg.Get("MYSQL_ROOT_PASSWORD"),
		Net:       "tcp",
		Addr:      fmt.Sprintf("%s:%s", cfg.Get("MYSQL_HOST"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
		DBName:    cfg.Get("MYSQL_DATABASE"),
		ParseTime: true,
	}
	return dbConfig.FormatDSN()
}

// FromConfig opens the SQL store when a database is configured and the JSON file store otherwise
func FromConfig(cfg *utils.Config, names []string) (stats.StoreInterface, error) {
	if dsn := DSN(cfg); dsn != "" {
		store, err := NewSqlStore(dsn, names)
		if err != nil {
			return nil, fmt.Errorf("failed to open stats database: %w", err)
		}
		log.Println("[STATS]: Using SQL counter store")
		return store, nil
	}

	store := NewFileStore(cfg.GetWithDefault("STATS_FILE", DefaultFile), names)
	log.Printf("[STATS]: Using counter file %s", store.Path())
	return store, nil
}
