package services

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/plotvest/plotvest/models"
)

const solDecimals = 9 // 1 SOL = 1e9 lamports

// ChainVerifier checks an on-chain transfer into the platform deposit
// account. Returns the credited amount and whether the transfer is finalized
// yet; a transfer that can never be credited (malformed signature, failed on
// chain, no funds moved to the deposit account) is an ErrInvalidInput.
type ChainVerifier interface {
	VerifyDeposit(ctx context.Context, signature string) (decimal.Decimal, bool, error)
}

// ChainService talks to a Solana RPC node to verify wallet deposits. Users
// fund their wallet by transferring SOL to the platform deposit account and
// submitting the transaction signature.
type ChainService struct {
	rpcClient      *rpc.Client
	depositAccount solana.PublicKey
	log            *logrus.Logger
}

// NewChainService connects to the RPC endpoint and parses the deposit
// account address.
func NewChainService(rpcURL, depositAccount string, log *logrus.Logger) (*ChainService, error) {
	account, err := solana.PublicKeyFromBase58(depositAccount)
	if err != nil {
		return nil, fmt.Errorf("parse deposit account: %w", err)
	}
	return &ChainService{
		rpcClient:      rpc.New(rpcURL),
		depositAccount: account,
		log:            log,
	}, nil
}

// VerifyDeposit fetches the transaction and measures the lamport balance
// change of the deposit account. The chain is the source of truth for the
// amount; nothing the client claims is trusted.
func (s *ChainService) VerifyDeposit(ctx context.Context, signature string) (decimal.Decimal, bool, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: malformed transaction signature", models.ErrInvalidInput)
	}

	maxVersion := uint64(0)
	out, err := s.rpcClient.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentFinalized,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		// Not finalized yet, or a transient RPC failure. The watcher polls
		// again until the deposit expires.
		s.log.WithError(err).WithField("signature", signature).Debug("deposit not yet visible on chain")
		return decimal.Zero, false, nil
	}
	if out == nil || out.Meta == nil {
		return decimal.Zero, false, nil
	}
	if out.Meta.Err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: transaction failed on chain: %v", models.ErrInvalidInput, out.Meta.Err)
	}

	decoded, err := out.Transaction.GetTransaction()
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: undecodable transaction", models.ErrInvalidInput)
	}

	idx := -1
	for i, key := range decoded.Message.AccountKeys {
		if key.Equals(s.depositAccount) {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(out.Meta.PreBalances) || idx >= len(out.Meta.PostBalances) {
		return decimal.Zero, false, fmt.Errorf("%w: transaction does not touch the deposit account", models.ErrInvalidInput)
	}

	delta := int64(out.Meta.PostBalances[idx]) - int64(out.Meta.PreBalances[idx])
	if delta <= 0 {
		return decimal.Zero, false, fmt.Errorf("%w: no funds transferred to the deposit account", models.ErrInvalidInput)
	}

	return decimal.New(delta, -solDecimals), true, nil
}
