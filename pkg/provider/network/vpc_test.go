package network

import (
	"testing"

	"github.com/klothoplatform/cdkbridge/pkg/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStack(t *testing.T) *synth.Stack {
	t.Helper()
	s, err := synth.NewApp(nil).NewStack("app-dev", "us-east-1")
	require.NoError(t, err)
	return s
}

func resourcesOf(t *testing.T, s *synth.Stack) map[string]any {
	t.Helper()
	tmpl, err := s.Synthesize()
	require.NoError(t, err)
	return tmpl["Resources"].(map[string]any)
}

func TestNewVpc_DefaultTopology(t *testing.T) {
	assert := assert.New(t)
	s := newStack(t)

	vpc, err := NewVpc(s, DefaultTopology)
	require.NoError(t, err)

	resources := resourcesOf(t, s)
	assert.Len(resources, 22)

	types := map[string]int{}
	for _, r := range resources {
		types[r.(map[string]any)["Type"].(string)]++
	}
	assert.Equal(map[string]int{
		"AWS::EC2::VPC":                         1,
		"AWS::EC2::InternetGateway":             1,
		"AWS::EC2::VPCGatewayAttachment":        1,
		"AWS::EC2::Subnet":                      4,
		"AWS::EC2::RouteTable":                  4,
		"AWS::EC2::SubnetRouteTableAssociation": 4,
		"AWS::EC2::Route":                       4,
		"AWS::EC2::EIP":                         1,
		"AWS::EC2::NatGateway":                  1,
		"AWS::EC2::SecurityGroup":               1,
	}, types)

	cidrOf := func(logicalId string) any {
		return resources[logicalId].(map[string]any)["Properties"].(map[string]any)["CidrBlock"]
	}
	assert.Equal("10.0.0.0/18", cidrOf("VpcPublicSubnet1"))
	assert.Equal("10.0.64.0/18", cidrOf("VpcPublicSubnet2"))
	assert.Equal("10.0.128.0/18", cidrOf("VpcPrivateSubnet1"))
	assert.Equal("10.0.192.0/18", cidrOf("VpcPrivateSubnet2"))

	// Both private subnets route through the single NAT gateway.
	for _, route := range []string{"VpcPrivateSubnet1DefaultRoute", "VpcPrivateSubnet2DefaultRoute"} {
		props := resources[route].(map[string]any)["Properties"].(map[string]any)
		assert.Equal(map[string]any{"Ref": "VpcPublicSubnet1NatGateway"}, props["NatGatewayId"], route)
	}

	publicRoute := resources["VpcPublicSubnet1DefaultRoute"].(map[string]any)
	assert.Equal([]any{"VpcIgwAttachment"}, publicRoute["DependsOn"])

	sg := resources["AppSecurityGroup"].(map[string]any)["Properties"].(map[string]any)
	assert.Equal(map[string]any{"Ref": "Vpc"}, sg["VpcId"])
	assert.Equal([]any{map[string]any{
		"CidrIp":      "0.0.0.0/0",
		"Description": "Allow all outbound traffic by default",
		"IpProtocol":  "-1",
	}}, sg["SecurityGroupEgress"])

	subnet := resources["VpcPrivateSubnet2"].(map[string]any)["Properties"].(map[string]any)
	assert.Equal(map[string]any{"Fn::Select": []any{1, map[string]any{"Fn::GetAZs": ""}}}, subnet["AvailabilityZone"])
	assert.Equal(false, subnet["MapPublicIpOnLaunch"])

	assert.Equal(map[string]any{"Fn::GetAtt": []any{"AppSecurityGroup", "GroupId"}}, s.Resolve(vpc.SecurityGroupId()))
	assert.Equal([]any{
		map[string]any{"Ref": "VpcPrivateSubnet1"},
		map[string]any{"Ref": "VpcPrivateSubnet2"},
	}, s.Resolve(vpc.PrivateSubnetIds()))
}

func TestNewVpc_Topologies(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		wantNats int
		wantErr  bool
	}{
		{name: "nat per az", topology: Topology{Cidr: "10.1.0.0/16", MaxAzs: 3, NatGateways: 3, SubnetMask: 19}, wantNats: 3},
		{name: "no nat", topology: Topology{Cidr: "10.1.0.0/16", MaxAzs: 2, SubnetMask: 18}},
		{name: "no az", topology: Topology{Cidr: "10.1.0.0/16", SubnetMask: 18}, wantErr: true},
		{name: "too many nats", topology: Topology{Cidr: "10.1.0.0/16", MaxAzs: 1, NatGateways: 2, SubnetMask: 18}, wantErr: true},
		{name: "subnets do not fit", topology: Topology{Cidr: "10.1.0.0/16", MaxAzs: 3, SubnetMask: 18}, wantErr: true},
		{name: "bad cidr", topology: Topology{Cidr: "10.1.0.0", MaxAzs: 1, SubnetMask: 18}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			s := newStack(t)
			_, err := NewVpc(s, tt.topology)
			if tt.wantErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			nats := 0
			for _, r := range resourcesOf(t, s) {
				if r.(map[string]any)["Type"] == "AWS::EC2::NatGateway" {
					nats++
				}
			}
			assert.Equal(tt.wantNats, nats)
		})
	}
}

func Test_splitCidr(t *testing.T) {
	tests := []struct {
		name    string
		cidr    string
		bits    int
		count   int
		want    []string
		wantErr bool
	}{
		{name: "quarters", cidr: "10.0.0.0/16", bits: 18, count: 4, want: []string{"10.0.0.0/18", "10.0.64.0/18", "10.0.128.0/18", "10.0.192.0/18"}},
		{name: "unmasked parent", cidr: "172.16.5.0/16", bits: 24, count: 2, want: []string{"172.16.0.0/24", "172.16.1.0/24"}},
		{name: "ipv6", cidr: "2001:db8::/56", bits: 64, count: 2, want: []string{"2001:db8::/64", "2001:db8:0:1::/64"}},
		{name: "mask smaller than parent", cidr: "10.0.0.0/16", bits: 8, count: 1, wantErr: true},
		{name: "too many", cidr: "10.0.0.0/16", bits: 17, count: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			got, err := splitCidr(tt.cidr, tt.bits, tt.count)
			if tt.wantErr {
				assert.Error(err)
				return
			}
			require.NoError(t, err)
			var strs []string
			for _, p := range got {
				strs = append(strs, p.String())
			}
			assert.Equal(tt.want, strs)
		})
	}
}
