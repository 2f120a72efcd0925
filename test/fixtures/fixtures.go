package fixtures

import (
	"fmt"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Phone returns a stable, unique phone number for the i-th test member.
func Phone(i int) string {
	return fmt.Sprintf("+9199%08d", i)
}

func Members(n, offset int) []model.GroupMemberInput {
	out := make([]model.GroupMemberInput, n)
	for i := range out {
		out[i] = model.GroupMemberInput{
			Name:         fmt.Sprintf("member %d", offset+i+1),
			Phone:        Phone(offset + i + 1),
			TicketNumber: i + 1,
		}
	}
	return out
}

// TenMemberGroup is the canonical pot: 100000 over 10 months at 5%, which
// makes the base installment 10000.
func TenMemberGroup(name string) model.GroupCreateRequest {
	return model.GroupCreateRequest{
		Name:           name,
		PotValue:       100000,
		Duration:       10,
		CommissionRate: decimal.NewFromInt(5),
		TotalMembers:   10,
		Members:        Members(10, 0),
	}
}

func AuctionRequest(month int, winnerMembershipID string, bid int64) model.AuctionRequest {
	return model.AuctionRequest{
		Month:              month,
		WinnerMembershipID: winnerMembershipID,
		BidAmount:          bid,
	}
}

func Payment(dueID string, amount int64, channel string) model.PaymentRequest {
	return model.PaymentRequest{DueID: dueID, Amount: amount, Channel: channel}
}
