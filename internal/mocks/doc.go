// Package mocks holds function-field test doubles for the service interfaces,
// the document generator and the JWT service.
//
// Each mock calls its XxxFn field when set and otherwise returns zero values
// (or the configured defaults), so a test only stubs the methods it exercises:
//
//	credits := &mocks.MockCreditService{
//	    RemainingFn: func(ctx context.Context, userID uuid.UUID) (int, error) {
//	        return 40, nil
//	    },
//	}
package mocks
