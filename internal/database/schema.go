package database

// movieSchema recreates both tables from scratch. Schema init is
// destructive by contract: a load is either complete or absent, never
// incremental. Movies are dropped before Directors because of the
// foreign key; Directors are created first because movie rows resolve
// director ids at insert time.
const movieSchema = `
DROP TABLE IF EXISTS "Movies";
DROP TABLE IF EXISTS "Directors";

CREATE TABLE "Directors" (
	"Id"            INTEGER PRIMARY KEY AUTOINCREMENT,
	"FirstName"     TEXT NOT NULL,
	"LastName"      TEXT NOT NULL,
	"Link"          TEXT
);

CREATE TABLE "Movies" (
	"Id"             INTEGER PRIMARY KEY AUTOINCREMENT,
	"MovieTitle"     TEXT NOT NULL,
	"Rank"           INTEGER,
	"Category"       TEXT NOT NULL,
	"Length"         INTEGER NOT NULL,
	"Genre"          TEXT,
	"ReleaseDate"    TEXT NOT NULL,
	"ReleaseCountry" TEXT NOT NULL,
	"Rating"         REAL NOT NULL,
	"DirectorId"     INTEGER NOT NULL,
	"Image"          TEXT,
	FOREIGN KEY ("DirectorId") REFERENCES Directors("Id")
);
`
