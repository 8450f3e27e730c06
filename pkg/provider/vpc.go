package provider

import (
	"errors"
	"fmt"

	"github.com/klothoplatform/cdkbridge/pkg/constructs"
	"github.com/klothoplatform/cdkbridge/pkg/host"
	"github.com/klothoplatform/cdkbridge/pkg/provider/network"
	"go.uber.org/zap"
)

var ErrVpcAlreadyConfigured = errors.New("the host configuration already declares 'provider.vpc'")

// EnableVpc returns the shared network of the stack, creating it on the first call. Creating it also
// places every function of the service in its private subnets by writing `provider.vpc` in the host
// configuration. It fails if the host configuration already has a `provider.vpc`.
func (p *AwsProvider) EnableVpc() (constructs.VpcReferences, error) {
	vpc, err := p.Vpc()
	if err != nil {
		return nil, err
	}
	return vpc, nil
}

// Vpc is [AwsProvider.EnableVpc] returning the concrete network.
func (p *AwsProvider) Vpc() (*network.Vpc, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.vpc != nil {
		return p.vpc, nil
	}
	if p.config.Provider.Vpc != nil {
		return nil, ErrVpcAlreadyConfigured
	}

	log := p.log.Named("vpc")
	vpc, err := network.NewVpc(p.stack, network.DefaultTopology)
	if err != nil {
		return nil, fmt.Errorf("could not create vpc: %w", err)
	}

	subnets := vpc.PrivateSubnetIds()
	subnetIds := make([]any, len(subnets))
	for i, subnet := range subnets {
		subnetIds[i] = p.GetCloudFormationReference(subnet)
	}
	p.config.Provider.Vpc = &host.VpcConfig{
		SecurityGroupIds: []any{p.GetCloudFormationReference(vpc.SecurityGroupId())},
		SubnetIds:        subnetIds,
	}
	p.vpc = vpc

	log.Debug("created vpc", zap.Int("private_subnets", len(subnets)))
	return vpc, nil
}
