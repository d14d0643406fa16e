package settings

import (
	"database/sql"
	"fmt"
	"strings"
)

// alertColumns maps the alert names to their table columns. Only these
// names ever reach a query.
var alertColumns = map[string]string{
	Race:       "race",
	Qualifying: "qualifying",
	Sprint:     "sprint",
	Practice:   "practice",
	Standings:  "standings",
}

func buildCreateSubscriptionsTable() string {
	return `CREATE TABLE IF NOT EXISTS subscriptions (
		userid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chatid TEXT NOT NULL,
		race INTEGER,
		qualifying INTEGER,
		sprint INTEGER,
		practice INTEGER,
		standings INTEGER);`
}

func buildSelectUserCommand(userID string) (string, func(*sql.Rows) (Alerts, error)) {
	fields := "race, qualifying, sprint, practice, standings"
	return fmt.Sprintf(`SELECT %s FROM subscriptions WHERE userid = '%s'`, fields, quote(userID)), processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) (Alerts, error) {
	defer rows.Close()

	a := AllDisabled()
	// only can be one row
	if rows.Next() {
		var race int
		var qualifying int
		var sprint int
		var practice int
		var standings int
		err := rows.Scan(&race, &qualifying, &sprint, &practice, &standings)
		if err != nil {
			return a, err
		}
		a.setAlertEnabledFlag(Race, race == 1)
		a.setAlertEnabledFlag(Qualifying, qualifying == 1)
		a.setAlertEnabledFlag(Sprint, sprint == 1)
		a.setAlertEnabledFlag(Practice, practice == 1)
		a.setAlertEnabledFlag(Standings, standings == 1)
		return a, nil
	}
	err := rows.Err()
	if err != nil {
		return a, err
	}
	return a, err
}

func buildSelectSubscribersCommand(alert string) (string, func(rows *sql.Rows) ([]Subscriber, error), error) {
	column, ok := alertColumns[alert]
	if !ok {
		return "", nil, fmt.Errorf("unknown alert %q", alert)
	}
	fields := "userid, name, chatid"
	return fmt.Sprintf(`SELECT %s FROM subscriptions WHERE %s = 1`, fields, column), processSelectSubscriberRows, nil
}

func processSelectSubscriberRows(rows *sql.Rows) ([]Subscriber, error) {
	defer rows.Close()

	users := make([]Subscriber, 0)
	for rows.Next() {
		var id string
		var name string
		var chatid string
		err := rows.Scan(&id, &name, &chatid)
		if err != nil {
			return users, err
		}
		users = append(users, Subscriber{
			ID:     id,
			Name:   name,
			ChatID: chatid,
		})
	}
	err := rows.Err()
	if err != nil {
		return users, err
	}
	return users, err
}

func buildUpsertUserCommand(userID, name, chatID string, a Alerts) string {
	race := a.enabledInt(Race)
	qualifying := a.enabledInt(Qualifying)
	sprint := a.enabledInt(Sprint)
	practice := a.enabledInt(Practice)
	standings := a.enabledInt(Standings)

	fields := "userid, name, chatid, race, qualifying, sprint, practice, standings"
	values := fmt.Sprintf(`'%s', '%s', '%s', %d, %d, %d, %d, %d`,
		quote(userID), quote(name), quote(chatID), race, qualifying, sprint, practice, standings)
	return fmt.Sprintf(`INSERT OR REPLACE INTO subscriptions (%s) VALUES (%s)`, fields, values)
}

// quote doubles single quotes so interpolated values cannot break out of
// their literal.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
