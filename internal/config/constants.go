package config

// DefaultDatabasePath is the default path for the journal database.
const DefaultDatabasePath = "./daybook.db"
