// Package ledger appends requisition transitions to a Hyperledger Fabric
// channel. Pharmaceutical distribution needs a tamper-evident trail of who
// released stock and when; the chaincode keeps that trail outside the
// operational database.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pharma-wms-api-server/config"

	fabconfig "github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/fabsdk"
	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
	"github.com/sirupsen/logrus"
)

// Recorder submits transition events to the audit chaincode. It satisfies
// requisition.Recorder.
type Recorder struct {
	gw       *gateway.Gateway
	contract *gateway.Contract
	sdk      *fabsdk.FabricSDK
	log      *logrus.Entry
}

// Connect initializes the Fabric gateway from config. Callers are expected
// to skip the ledger entirely when cfg.Enabled is false.
func Connect(cfg config.LedgerConfig) (*Recorder, error) {
	os.Setenv("DISCOVERY_AS_LOCALHOST", "true")

	fsWallet, err := gateway.NewFileSystemWallet("wallet")
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if err := populateWallet(fsWallet, cfg.OrgName, cfg.UserName, cfg.UserCertPath, cfg.UserKeyDir); err != nil {
		return nil, fmt.Errorf("failed to populate wallet: %w", err)
	}

	sdk, err := fabsdk.New(fabconfig.FromFile(filepath.Clean(cfg.ConnectionProfile)))
	if err != nil {
		return nil, fmt.Errorf("failed to create fabsdk instance: %w", err)
	}

	gw, err := gateway.Connect(
		gateway.WithSDK(sdk),
		gateway.WithIdentity(fsWallet, cfg.UserName),
	)
	if err != nil {
		sdk.Close()
		return nil, fmt.Errorf("failed to connect to gateway: %w", err)
	}

	network, err := gw.GetNetwork(cfg.ChannelName)
	if err != nil {
		gw.Close()
		sdk.Close()
		return nil, fmt.Errorf("failed to get network: %w", err)
	}

	return &Recorder{
		gw:       gw,
		contract: network.GetContract(cfg.ChaincodeName),
		sdk:      sdk,
		log:      logrus.WithField("component", "ledger"),
	}, nil
}

// RecordTransition submits one audit event. Failures are logged and
// swallowed: the ledger trails the operational store, it never gates it.
func (r *Recorder) RecordTransition(requisitionID, fromStatus, toStatus, actorID string) {
	_, err := r.contract.SubmitTransaction(
		"RecordRequisitionEvent",
		requisitionID,
		fromStatus,
		toStatus,
		actorID,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.log.WithError(err).WithField("requisitionID", requisitionID).
			Warn("failed to record transition on ledger")
	}
}

func (r *Recorder) Close() {
	r.gw.Close()
	r.sdk.Close()
}
