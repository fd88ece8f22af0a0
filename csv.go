package referral

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/referral/date"
)

// ExportFileName returns the name of a CSV export made on day: "Referrals - 2025-07-01.csv".
func ExportFileName(title string, day date.Date) string {
	return fmt.Sprintf("%s - %s.csv", title, day)
}

// WriteReferralsCSV writes the referral listing as CSV, header first.
func WriteReferralsCSV(w io.Writer, rows []ReferralRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Referee Email", "Joined Date", "Country", "Milestones", "Bonus Earned", "Credited"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Email,
			r.ApprovedOn.String(),
			r.Country,
			strconv.Itoa(r.Milestones),
			r.Approved.String(),
			r.Credited.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupBonusesCSV writes the additional bonus listing as CSV, header first.
func WriteGroupBonusesCSV(w io.Writer, rows []GroupBonusRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Bonus Earned", "Credited"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.AchievedOn.String(), r.Approved.String(), r.Credited.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
