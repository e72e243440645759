// SPDX-License-Identifier: MPL-2.0

package datasource

import (
	"strings"

	"github.com/invowk/dsidentify/internal/dmi"
	"github.com/invowk/dsidentify/internal/seed"
)

// Identity strings and seed markers the checks look for.
const (
	aliYunProductName   = "Alibaba Cloud ECS"
	azureChassisTag     = "7783-7084-3265-9085-8269-3286-77"
	exoscaleProductName = "Exoscale"
	gceProductName      = "Google Compute Engine"
	gceSerialPrefix     = "GoogleCloud"
	oracleChassisTag    = "OracleCloud.com"
	ec2Prefix           = "ec2"

	azureSeedType       = "azure"
	azureSeedFile       = "ovf-env.xml"
	configDriveSeedType = "config_drive"
	configDriveSeedFile = "openstack/latest/meta_data.json"
	noCloudUserData     = "user-data"
	noCloudMetaData     = "meta-data"
)

var (
	noCloudSeedTypes = []string{"nocloud", "nocloud-net"}
	noCloudPrefixes  = []seed.Prefix{seed.NoPrefix, seed.WritablePrefix}
)

type (
	// Environment carries the signal sources the checks read.
	Environment struct {
		Identity *dmi.Reader
		Seeds    *seed.Prober
	}

	check func(env *Environment) bool
)

// checks is indexed by kind. Unknown and None never match while filtering;
// None is appended afterwards by the engine.
var checks = [...]check{
	kindUnknown:     never,
	kindAliYun:      checkAliYun,
	kindAzure:       checkAzure,
	kindConfigDrive: checkConfigDrive,
	kindEc2:         checkEc2,
	kindExoscale:    checkExoscale,
	kindGCE:         checkGCE,
	kindNoCloud:     checkNoCloud,
	kindOracle:      checkOracle,
	kindNone:        never,
}

func never(*Environment) bool { return false }

func checkAliYun(env *Environment) bool {
	return env.Identity.Equals(dmi.ProductName, aliYunProductName)
}

func checkAzure(env *Environment) bool {
	if env.Seeds.Exists(seed.NoPrefix, azureSeedType, azureSeedFile) {
		return true
	}
	return env.Identity.Equals(dmi.ChassisAssetTag, azureChassisTag)
}

func checkConfigDrive(env *Environment) bool {
	return env.Seeds.Exists(seed.NoPrefix, configDriveSeedType, configDriveSeedFile)
}

// checkEc2 matches Xen and Nitro instances, whose serial and UUID both start
// with "ec2" and are the same value up to case.
func checkEc2(env *Environment) bool {
	serial, ok := env.Identity.ProductSerial()
	if !ok {
		return false
	}
	uuid, ok := env.Identity.ProductUUID()
	if !ok {
		return false
	}
	serial, uuid = strings.ToLower(serial), strings.ToLower(uuid)
	return strings.HasPrefix(serial, ec2Prefix) &&
		strings.HasPrefix(uuid, ec2Prefix) &&
		serial == uuid
}

func checkExoscale(env *Environment) bool {
	return env.Identity.Equals(dmi.ProductName, exoscaleProductName)
}

func checkGCE(env *Environment) bool {
	return env.Identity.Equals(dmi.ProductName, gceProductName) ||
		env.Identity.HasPrefix(dmi.ProductSerial, gceSerialPrefix)
}

func checkNoCloud(env *Environment) bool {
	for _, seedType := range noCloudSeedTypes {
		for _, prefix := range noCloudPrefixes {
			if env.Seeds.ExistsAll(prefix, seedType, noCloudUserData, noCloudMetaData) {
				return true
			}
		}
	}
	return false
}

func checkOracle(env *Environment) bool {
	return env.Identity.Equals(dmi.ChassisAssetTag, oracleChassisTag)
}
