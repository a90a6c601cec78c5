package renderer

// MaxJoints is the size of the joint palette in the mesh shader.
const MaxJoints = 128

const backgroundVertex = `
#version 410 core

out vec2 vNDC;

void main() {
	// Fullscreen triangle from the vertex index.
	vec2 pos = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2)) * 2.0 - 1.0;
	vNDC = pos;
	gl_Position = vec4(pos, 1.0, 1.0);
}
`

const backgroundFragment = `
#version 410 core

const float PI = 3.14159265359;

uniform mat4 uInvViewProj;
uniform sampler2D uEnvironment;
uniform float uExposure;

in vec2 vNDC;
out vec4 FragColor;

void main() {
	vec4 far = uInvViewProj * vec4(vNDC, 1.0, 1.0);
	vec3 dir = normalize(far.xyz / far.w);
	vec2 uv = vec2(atan(dir.z, dir.x) / (2.0 * PI) + 0.5, acos(clamp(dir.y, -1.0, 1.0)) / PI);
	vec3 hdr = texture(uEnvironment, uv).rgb * uExposure;
	FragColor = vec4(hdr / (hdr + vec3(1.0)), 1.0);
}
`

const meshVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;
layout (location = 3) in vec4 aJoints;
layout (location = 4) in vec4 aWeights;

uniform mat4 uProjection;
uniform mat4 uView;
uniform mat4 uModel;
uniform bool uSkinned;
uniform mat4 uJoints[128];

out vec3 vNormal;
out vec2 vUV;

void main() {
	mat4 world = uModel;
	if (uSkinned) {
		world = aWeights.x * uJoints[int(aJoints.x)]
			+ aWeights.y * uJoints[int(aJoints.y)]
			+ aWeights.z * uJoints[int(aJoints.z)]
			+ aWeights.w * uJoints[int(aJoints.w)];
	}
	vNormal = mat3(transpose(inverse(world))) * aNormal;
	vUV = aUV;
	gl_Position = uProjection * uView * world * vec4(aPos, 1.0);
}
`

const meshFragment = `
#version 410 core

uniform vec4 uBaseColor;
uniform bool uHasColorMap;
uniform sampler2D uColorMap;

uniform vec3 uSky;
uniform vec3 uGround;
uniform float uHemiIntensity;

uniform vec3 uLightColor;
uniform vec3 uLightDir;
uniform float uLightIntensity;

uniform vec3 uEnvAmbient;

in vec3 vNormal;
in vec2 vUV;
out vec4 FragColor;

void main() {
	vec4 base = uBaseColor;
	if (uHasColorMap) {
		base *= texture(uColorMap, vUV);
	}
	if (base.a < 0.05) {
		discard;
	}

	vec3 n = normalize(vNormal);
	vec3 hemi = mix(uGround, uSky, dot(n, vec3(0.0, 1.0, 0.0)) * 0.5 + 0.5) * uHemiIntensity;
	vec3 key = uLightColor * uLightIntensity * max(dot(n, -uLightDir), 0.0);
	vec3 lit = base.rgb * (hemi + key + uEnvAmbient);

	FragColor = vec4(lit / (lit + vec3(1.0)), base.a);
}
`
