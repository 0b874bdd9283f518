// Package database opens the optional run history database.
//
// Connect wraps GORM and supports a local sqlite file (the default) and
// MySQL for shared installations. The inspector helpers read table columns
// so callers can verify that an existing schema matches what they expect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("history disabled", zap.Error(err))
//	}
package database
