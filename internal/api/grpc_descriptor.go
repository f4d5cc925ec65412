package api

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const designCatalogProtoPath = "knitting/v1/design_catalog.proto"

// The DesignCatalog service has no generated code, so its file descriptor is
// built here and registered globally for server reflection.
func init() {
	fd, err := protodesc.NewFile(designCatalogFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("api: build %s descriptor: %v", designCatalogProtoPath, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("api: register %s descriptor: %v", designCatalogProtoPath, err))
	}
}

func designCatalogFileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(designCatalogProtoPath),
		Package: proto.String("knitting.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			emptypb.File_google_protobuf_empty_proto.Path(),
			structpb.File_google_protobuf_struct_proto.Path(),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("DesignCatalog"),
			Method: []*descriptorpb.MethodDescriptorProto{{
				Name:       proto.String("ListDesigns"),
				InputType:  proto.String(".google.protobuf.Empty"),
				OutputType: proto.String(".google.protobuf.ListValue"),
			}},
		}},
	}
}
