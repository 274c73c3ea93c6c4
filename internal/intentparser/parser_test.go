package intentparser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mae-finance/wallet/internal/domain"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		raw     string
		want    domain.PaymentIntent
		wantErr error
	}{
		{
			name: "FullDescriptor",
			raw:  "Jane Doe <jane@example.com>, amount:12.50, ref:INV-1",
			want: domain.PaymentIntent{
				RecipientName:    "Jane Doe",
				RecipientAddress: "jane@example.com",
				Amount:           1250,
				Reference:        "INV-1",
			},
		},
		{
			name: "BareAddress",
			raw:  "merchant@example.com, amount:12.50, ref:INV-2023-456",
			want: domain.PaymentIntent{
				RecipientName:    "Merchant",
				RecipientAddress: "merchant@example.com",
				Amount:           1250,
				Reference:        "INV-2023-456",
			},
		},
		{
			name: "TokensInAnyOrder",
			raw:  "ref:R-9, Jane Doe <jane@example.com>, amount:5",
			want: domain.PaymentIntent{
				RecipientName:    "Jane Doe",
				RecipientAddress: "jane@example.com",
				Amount:           500,
				Reference:        "R-9",
			},
		},
		{
			name: "UnrecognizedTokensIgnored",
			raw:  "color:blue, jane@example.com, amount:1.00, ref:X, note:hello",
			want: domain.PaymentIntent{
				RecipientName:    "Merchant",
				RecipientAddress: "jane@example.com",
				Amount:           100,
				Reference:        "X",
			},
		},
		{
			name: "MissingAmountDefaultsToZero",
			raw:  "jane@example.com, ref:INV-1",
			want: domain.PaymentIntent{
				RecipientName:    "Merchant",
				RecipientAddress: "jane@example.com",
				Amount:           0,
				Reference:        "INV-1",
			},
		},
		{
			name: "NonNumericAmountDefaultsToZero",
			raw:  "jane@example.com, amount:abc, ref:INV-1",
			want: domain.PaymentIntent{
				RecipientName:    "Merchant",
				RecipientAddress: "jane@example.com",
				Amount:           0,
				Reference:        "INV-1",
			},
		},
		{
			name: "MissingReferenceDefaults",
			raw:  "jane@example.com, amount:2.00",
			want: domain.PaymentIntent{
				RecipientName:    "Merchant",
				RecipientAddress: "jane@example.com",
				Amount:           200,
				Reference:        "N/A",
			},
		},
		{
			name: "MissingContactDefaults",
			raw:  "amount:2.00, ref:INV-1",
			want: domain.PaymentIntent{
				RecipientName:    "Unknown Merchant",
				RecipientAddress: "unknown@example.com",
				Amount:           200,
				Reference:        "INV-1",
			},
		},
		{
			name:    "Empty",
			raw:     "",
			wantErr: domain.ErrMalformedPayload,
		},
		{
			name:    "Blank",
			raw:     "   ",
			wantErr: domain.ErrMalformedPayload,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tc.raw)
			if err != tc.wantErr {
				t.Fatalf("Parse(%q) returned error %v, want %v", tc.raw, err, tc.wantErr)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}
