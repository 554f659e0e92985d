package corosync

import (
	"errors"

	"go.uber.org/zap"
)

// Migrate upgrades a corosync 2 document in place to the corosync 3
// layout: the transport moves to knet, udp-only interface options are
// dropped, the crypto hash default change is applied, and the removed rrp
// options are translated. A document that already uses knet is left
// untouched.
//
// Multicast configurations carry their membership implicitly, so a udp
// document without a nodelist cannot be migrated from its configuration
// alone.
func (c *Conf) Migrate(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	totem, ok := c.root["totem"].(Section)
	if !ok {
		return errors.New("document has no totem section")
	}
	c.normalizeLists()
	if err := c.migrateTransport(totem, logger); err != nil {
		return err
	}
	c.migrateCrypto(totem, logger)
	c.migrateRRP(totem, logger)
	return nil
}

var errMulticastNeedsNodelist = errors.New("cannot migrate a multicast configuration without a nodelist")

func (c *Conf) migrateTransport(totem Section, logger *zap.Logger) error {
	transport, _ := totem["transport"].(string)
	switch transport {
	case "knet":
		return nil
	case "udpu":
		c.upgradeToKnet(totem, logger)
	case "udp":
		if _, ok := c.root["nodelist"]; !ok {
			return errMulticastNeedsNodelist
		}
		c.upgradeToKnet(totem, logger)
	default:
		// corosync 2 defaulted the transport to udp; a bindnetaddr on the
		// first interface is the tell. Without it this is already a
		// corosync 3 document.
		if _, ok := c.GetIndex("totem.interface.bindnetaddr", 0); !ok {
			return nil
		}
		if _, ok := c.root["nodelist"]; !ok {
			return errMulticastNeedsNodelist
		}
		c.upgradeToKnet(totem, logger)
	}
	return nil
}

// udp-only interface options that have no knet equivalent.
var udpOnlyInterfaceOptions = []string{"mcastaddr", "bindnetaddr", "broadcast", "ttl"}

func (c *Conf) upgradeToKnet(totem Section, logger *zap.Logger) {
	totem["transport"] = "knet"
	totem["knet_compression_model"] = "none"

	if interfaces, ok := totem["interface"].([]Section); ok {
		for _, iface := range interfaces {
			for _, opt := range udpOnlyInterfaceOptions {
				delete(iface, opt)
			}
			if ringnumber, ok := iface["ringnumber"]; ok {
				delete(iface, "ringnumber")
				iface["linknumber"] = ringnumber
			}
		}
	}
	if quorum, ok := c.root["quorum"].(Section); ok {
		if _, ok := quorum["expected_votes"]; ok {
			delete(quorum, "expected_votes")
			logger.Info("unset quorum.expected_votes")
		}
	}
	logger.Info("upgraded totem.transport to knet")
}

func (c *Conf) migrateCrypto(totem Section, logger *zap.Logger) {
	// corosync 3 changed the default hash to sha256 when secauth is on.
	if hash, _ := totem["crypto_hash"].(string); hash == "sha1" {
		totem["crypto_hash"] = "sha256"
		logger.Info("upgraded totem.crypto_hash", zap.String("from", "sha1"), zap.String("to", "sha256"))
	}
}

func (c *Conf) migrateRRP(totem Section, logger *zap.Logger) {
	nodes, _ := gatherSections(c.root, "nodelist", "node")
	if len(nodes) == 0 {
		return
	}
	rrp := false
	for _, node := range nodes {
		if _, ok := node["ring1_addr"]; ok {
			rrp = true
			break
		}
	}
	if !rrp {
		return
	}
	if mode, ok := totem["rrp_mode"].(string); ok {
		delete(totem, "rrp_mode")
		logger.Info("removed totem.rrp_mode", zap.String("mode", mode))
		if mode == "active" {
			totem["link_mode"] = "active"
			logger.Info("set totem.link_mode to active")
		}
	}
}

// gatherSections returns the Section matches at the given path segments.
func gatherSections(root Section, segs ...string) ([]Section, bool) {
	var out []Section
	for _, m := range gather(root, segs) {
		if sec, ok := m.(Section); ok {
			out = append(out, sec)
		}
	}
	return out, len(out) > 0
}
