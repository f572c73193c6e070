// Package agent exposes one GreatWall engine session over gRPC, so a host
// process (a GUI, a browser bridge) can drive a derivation running in a
// separate, locked-down process.
//
// The service is registered by hand over protobuf well-known types and needs
// no code generation. Proto sketch:
//
//	service Derivation {
//	  rpc Configure(google.protobuf.Struct) returns (google.protobuf.Empty);
//	  rpc SetSeed(google.protobuf.BytesValue) returns (google.protobuf.Empty);
//	  rpc SetPassphrase(google.protobuf.StringValue) returns (google.protobuf.Empty);
//	  rpc Bootstrap(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Start(google.protobuf.Empty) returns (stream google.protobuf.Struct);
//	  rpc ListOptions(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Choose(google.protobuf.Int32Value) returns (google.protobuf.Struct);
//	  rpc GoBack(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Finish(google.protobuf.Empty) returns (google.protobuf.BytesValue);
//	  rpc Cancel(google.protobuf.Empty) returns (google.protobuf.Empty);
//	  rpc Status(google.protobuf.Empty) returns (google.protobuf.Struct);
//	}
//
// Engine errors travel as gRPC status codes with the rule id attached as a
// detail; Client turns them back into *greatwall.Error.
package agent
