package network

import (
	"fmt"
	"net/netip"

	"github.com/klothoplatform/cdkbridge/pkg/construct"
	"github.com/klothoplatform/cdkbridge/pkg/synth"
)

type (
	// Topology describes the shape of the network.
	Topology struct {
		Cidr string
		// MaxAzs is how many availability zones get one public and one private subnet.
		MaxAzs int
		// NatGateways is the number of NAT gateways, placed in the first public subnets. Private subnets
		// without their own gateway route through the first one.
		NatGateways int
		SubnetMask  int
	}

	// Vpc is the shared network of a stack: a VPC with public and private subnets spread across
	// availability zones, internet egress for the private subnets through NAT, and a security group
	// for the application's functions.
	Vpc struct {
		Topology Topology

		stack          *synth.Stack
		id             construct.ResourceId
		securityGroup  construct.ResourceId
		privateSubnets []construct.ResourceId
		natGateways    []construct.ResourceId
	}
)

var DefaultTopology = Topology{
	Cidr:        "10.0.0.0/16",
	MaxAzs:      2,
	NatGateways: 1,
	SubnetMask:  18,
}

// NewVpc adds the network resources to the stack.
func NewVpc(stack *synth.Stack, topology Topology) (*Vpc, error) {
	if topology.MaxAzs < 1 {
		return nil, fmt.Errorf("vpc needs at least one availability zone, got %d", topology.MaxAzs)
	}
	if topology.NatGateways < 0 || topology.NatGateways > topology.MaxAzs {
		return nil, fmt.Errorf("vpc can have between 0 and %d NAT gateways, got %d", topology.MaxAzs, topology.NatGateways)
	}
	cidrs, err := splitCidr(topology.Cidr, topology.SubnetMask, 2*topology.MaxAzs)
	if err != nil {
		return nil, err
	}

	v := &Vpc{
		Topology:      topology,
		stack:         stack,
		id:            construct.ResourceId{Name: "Vpc"},
		securityGroup: construct.ResourceId{Name: "AppSecurityGroup"},
	}
	b := construct.NewGraphBatch(stack.Graph())

	b.AddResources(&construct.Resource{
		ID:   v.id,
		Type: "AWS::EC2::VPC",
		Properties: construct.Properties{
			"CidrBlock":          topology.Cidr,
			"EnableDnsHostnames": true,
			"EnableDnsSupport":   true,
			"InstanceTenancy":    "default",
			"Tags":               nameTag(stack.Name),
		},
	})

	igw := v.id.Child("Igw")
	igwAttachment := v.id.Child("IgwAttachment")
	b.AddResources(
		&construct.Resource{
			ID:         igw,
			Type:       "AWS::EC2::InternetGateway",
			Properties: construct.Properties{"Tags": nameTag(stack.Name)},
		},
		&construct.Resource{
			ID:   igwAttachment,
			Type: "AWS::EC2::VPCGatewayAttachment",
			Properties: construct.Properties{
				"VpcId":             stack.Ref(v.id),
				"InternetGatewayId": stack.Ref(igw),
			},
		},
	)

	for az := 0; az < topology.MaxAzs; az++ {
		name := fmt.Sprintf("PublicSubnet%d", az+1)
		subnet := v.addSubnet(b, name, az, cidrs[az], true)
		route := v.addRoute(b, subnet, "GatewayId", stack.Ref(igw))
		b.AddDependencies(route, igwAttachment)

		if az < topology.NatGateways {
			eip := subnet.Child("Eip")
			nat := subnet.Child("NatGateway")
			b.AddResources(
				&construct.Resource{
					ID:         eip,
					Type:       "AWS::EC2::EIP",
					Properties: construct.Properties{"Domain": "vpc", "Tags": nameTag(stack.Name + "/" + name)},
				},
				&construct.Resource{
					ID:   nat,
					Type: "AWS::EC2::NatGateway",
					Properties: construct.Properties{
						"SubnetId":     stack.Ref(subnet),
						"AllocationId": stack.GetAtt(eip, "AllocationId"),
						"Tags":         nameTag(stack.Name + "/" + name),
					},
				},
			)
			b.AddDependencies(nat, route, subnet.Child("RouteTableAssociation"))
			v.natGateways = append(v.natGateways, nat)
		}
	}

	for az := 0; az < topology.MaxAzs; az++ {
		subnet := v.addSubnet(b, fmt.Sprintf("PrivateSubnet%d", az+1), az, cidrs[topology.MaxAzs+az], false)
		if len(v.natGateways) > 0 {
			nat := v.natGateways[min(az, len(v.natGateways)-1)]
			v.addRoute(b, subnet, "NatGatewayId", stack.Ref(nat))
		}
		v.privateSubnets = append(v.privateSubnets, subnet)
	}

	b.AddResources(&construct.Resource{
		ID:   v.securityGroup,
		Type: "AWS::EC2::SecurityGroup",
		Properties: construct.Properties{
			"GroupDescription": "Security group of the application's functions",
			"VpcId":            stack.Ref(v.id),
			"SecurityGroupEgress": []any{
				map[string]any{
					"CidrIp":      "0.0.0.0/0",
					"Description": "Allow all outbound traffic by default",
					"IpProtocol":  "-1",
				},
			},
		},
	})

	if b.Err != nil {
		if err := b.Rollback(); err != nil {
			return nil, fmt.Errorf("could not create vpc: %w (removing the partial vpc: %v)", b.Err, err)
		}
		return nil, fmt.Errorf("could not create vpc: %w", b.Err)
	}
	return v, nil
}

func (v *Vpc) addSubnet(b *construct.GraphBatch, name string, az int, cidr netip.Prefix, public bool) construct.ResourceId {
	subnet := v.id.Child(name)
	routeTable := subnet.Child("RouteTable")
	subnetType := "Private"
	if public {
		subnetType = "Public"
	}
	b.AddResources(
		&construct.Resource{
			ID:   subnet,
			Type: "AWS::EC2::Subnet",
			Properties: construct.Properties{
				"VpcId":               v.stack.Ref(v.id),
				"AvailabilityZone":    synth.Select{Index: az, List: synth.GetAZs{}},
				"CidrBlock":           cidr.String(),
				"MapPublicIpOnLaunch": public,
				"Tags": []any{
					map[string]any{"Key": "Name", "Value": v.stack.Name + "/" + name},
					map[string]any{"Key": "aws-cdk:subnet-type", "Value": subnetType},
				},
			},
		},
		&construct.Resource{
			ID:   routeTable,
			Type: "AWS::EC2::RouteTable",
			Properties: construct.Properties{
				"VpcId": v.stack.Ref(v.id),
				"Tags":  nameTag(v.stack.Name + "/" + name),
			},
		},
		&construct.Resource{
			ID:   subnet.Child("RouteTableAssociation"),
			Type: "AWS::EC2::SubnetRouteTableAssociation",
			Properties: construct.Properties{
				"RouteTableId": v.stack.Ref(routeTable),
				"SubnetId":     v.stack.Ref(subnet),
			},
		},
	)
	return subnet
}

// addRoute adds the subnet's default route to `target`, set on the route's `targetProperty`.
func (v *Vpc) addRoute(b *construct.GraphBatch, subnet construct.ResourceId, targetProperty string, target string) construct.ResourceId {
	route := subnet.Child("DefaultRoute")
	b.AddResources(&construct.Resource{
		ID:   route,
		Type: "AWS::EC2::Route",
		Properties: construct.Properties{
			"RouteTableId":         v.stack.Ref(subnet.Child("RouteTable")),
			"DestinationCidrBlock": "0.0.0.0/0",
			targetProperty:         target,
		},
	})
	return route
}

// SecurityGroupId is a token for the id of the application security group.
func (v *Vpc) SecurityGroupId() string {
	return v.stack.GetAtt(v.securityGroup, "GroupId")
}

// PrivateSubnetIds are tokens for the ids of the private subnets, one per availability zone.
func (v *Vpc) PrivateSubnetIds() []string {
	ids := make([]string, len(v.privateSubnets))
	for i, subnet := range v.privateSubnets {
		ids[i] = v.stack.Ref(subnet)
	}
	return ids
}

func nameTag(name string) []any {
	return []any{map[string]any{"Key": "Name", "Value": name}}
}
